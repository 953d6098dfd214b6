package flashloan

import "errors"

// Flash loan pool errors.
var (
	// ErrInsufficientLiquidity is returned when the pool balance cannot
	// cover the requested borrow.
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity for flash loan")

	// ErrFlashLoanActive is returned when a borrow is attempted while a
	// loan is already outstanding (reentrancy prevented).
	ErrFlashLoanActive = errors.New("flash loan already active")

	// ErrNoActiveLoan is returned when a repay is attempted with no loan
	// outstanding.
	ErrNoActiveLoan = errors.New("no active flash loan to repay")

	// ErrInsufficientRepayment is returned when the repayment does not
	// cover principal plus fee. Partial repayment is rejected, never
	// partially applied.
	ErrInsufficientRepayment = errors.New("repayment amount insufficient")

	// ErrBorrowAmountTooLow rejects dust borrows below the minimum.
	ErrBorrowAmountTooLow = errors.New("borrow amount below minimum threshold")

	// ErrBorrowAmountTooHigh rejects borrows above the per-loan maximum.
	ErrBorrowAmountTooHigh = errors.New("borrow amount exceeds maximum threshold")

	// ErrFeeTooHigh rejects pool initialization with a fee above 100 bps.
	ErrFeeTooHigh = errors.New("fee basis points exceeds maximum allowed")

	// ErrInvalidAmount rejects zero-amount deposits.
	ErrInvalidAmount = errors.New("amount must be positive")
)
