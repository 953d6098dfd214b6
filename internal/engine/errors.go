package engine

import "errors"

// Execution engine errors. All abort the cycle with zero side effects.
var (
	// ErrStrategyNotApproved is returned when the strategy is not in the
	// Approved state.
	ErrStrategyNotApproved = errors.New("strategy is not approved for execution")

	// ErrInsufficientVaultLiquidity is returned when the vault cannot
	// cover the requested borrow.
	ErrInsufficientVaultLiquidity = errors.New("insufficient vault liquidity for flash loan")

	// ErrNegativeProfit is returned when the swap output does not exceed
	// the borrowed amount plus the flash loan fee.
	ErrNegativeProfit = errors.New("strategy execution resulted in negative profit")

	// ErrSlippageExceeded is returned when net profit falls below the
	// caller's minimum.
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")

	// ErrInvalidAmount rejects zero-amount vault deposits.
	ErrInvalidAmount = errors.New("amount must be positive")
)
