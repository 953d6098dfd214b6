package flashloan

import (
	"context"
	"errors"
	"testing"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/storage"
	"solana-arb-dao/internal/storage/memory"
)

const (
	authority = domain.Address("pool-admin")
	depositor = domain.Address("whale")
	borrower  = domain.Address("arb-bot")

	sol = uint64(1_000_000_000)
)

func newTestProgram(t *testing.T) (*Program, *ledger.Ledger) {
	t.Helper()
	led := ledger.New()
	p := New(Options{
		Ledger: led,
		Store:  memory.NewPoolStore(),
		Clock:  func() int64 { return 1_700_000_000 },
	})
	return p, led
}

// fundedPool initializes a pool with the default fee and 1000 SOL of
// liquidity.
func fundedPool(t *testing.T) (*Program, *ledger.Ledger) {
	t.Helper()
	p, led := newTestProgram(t)
	ctx := context.Background()

	if err := p.InitializePool(ctx, authority, domain.DefaultFeeBps); err != nil {
		t.Fatalf("InitializePool failed: %v", err)
	}
	led.MintTo(domain.WSOLMint, depositor, 1_000*sol)
	if err := p.DepositLiquidity(ctx, depositor, 1_000*sol); err != nil {
		t.Fatalf("DepositLiquidity failed: %v", err)
	}
	return p, led
}

func TestInitializePool(t *testing.T) {
	p, _ := newTestProgram(t)
	ctx := context.Background()

	if err := p.InitializePool(ctx, authority, 9); err != nil {
		t.Fatalf("InitializePool failed: %v", err)
	}

	pool, err := p.Pool(ctx)
	if err != nil {
		t.Fatalf("Pool failed: %v", err)
	}
	if pool.FeeBps != 9 {
		t.Errorf("FeeBps = %d, want 9", pool.FeeBps)
	}
	if pool.FlashLoanActive {
		t.Error("new pool reports an active loan")
	}

	if err := p.InitializePool(ctx, authority, 9); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitializePool_FeeTooHigh(t *testing.T) {
	p, _ := newTestProgram(t)

	if err := p.InitializePool(context.Background(), authority, domain.MaxFeeBps+1); !errors.Is(err, ErrFeeTooHigh) {
		t.Errorf("expected ErrFeeTooHigh, got %v", err)
	}
}

func TestDepositLiquidity(t *testing.T) {
	p, led := fundedPool(t)
	ctx := context.Background()

	pool, _ := p.Pool(ctx)
	if pool.TotalDeposited != 1_000*sol {
		t.Errorf("TotalDeposited = %d, want %d", pool.TotalDeposited, 1_000*sol)
	}
	if got := led.Balance(domain.WSOLMint, pool.TokenAccount); got != 1_000*sol {
		t.Errorf("pool account balance = %d, want %d", got, 1_000*sol)
	}

	if err := p.DepositLiquidity(ctx, depositor, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestFlashBorrow_Bounds(t *testing.T) {
	p, _ := fundedPool(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  uint64
		wantErr error
	}{
		{"below minimum", domain.MinBorrowAmount - 1, ErrBorrowAmountTooLow},
		{"above maximum", domain.MaxBorrowAmount + 1, ErrBorrowAmountTooHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.FlashBorrow(ctx, borrower, tt.amount); !errors.Is(err, tt.wantErr) {
				t.Errorf("FlashBorrow(%d) = %v, want %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestFlashBorrow_InsufficientLiquidity(t *testing.T) {
	p, led := newTestProgram(t)
	ctx := context.Background()

	// Fund the pool below the borrow ceiling so an in-bounds request can
	// still outrun the liquidity.
	if err := p.InitializePool(ctx, authority, domain.DefaultFeeBps); err != nil {
		t.Fatalf("InitializePool failed: %v", err)
	}
	led.MintTo(domain.WSOLMint, depositor, 500*sol)
	if err := p.DepositLiquidity(ctx, depositor, 500*sol); err != nil {
		t.Fatalf("DepositLiquidity failed: %v", err)
	}

	if err := p.FlashBorrow(ctx, borrower, 600*sol); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Errorf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestFlashBorrow_ReentrancyGuard(t *testing.T) {
	p, _ := fundedPool(t)
	ctx := context.Background()

	if err := p.FlashBorrow(ctx, borrower, 10*sol); err != nil {
		t.Fatalf("first borrow failed: %v", err)
	}
	if err := p.FlashBorrow(ctx, borrower, 10*sol); !errors.Is(err, ErrFlashLoanActive) {
		t.Errorf("expected ErrFlashLoanActive, got %v", err)
	}
}

func TestFlashRepay_WithoutActiveLoan(t *testing.T) {
	p, _ := fundedPool(t)

	if err := p.FlashRepay(context.Background(), borrower, 10*sol); !errors.Is(err, ErrNoActiveLoan) {
		t.Errorf("expected ErrNoActiveLoan, got %v", err)
	}
}

func TestFlashRepay_PartialRejected(t *testing.T) {
	p, led := fundedPool(t)
	ctx := context.Background()

	if err := p.FlashBorrow(ctx, borrower, 10*sol); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}

	// Required repayment is 10 SOL + 9 bps fee = 10.009 SOL. Principal
	// alone must be rejected, and the loan stays active.
	led.MintTo(domain.WSOLMint, borrower, sol)
	if err := p.FlashRepay(ctx, borrower, 10*sol); !errors.Is(err, ErrInsufficientRepayment) {
		t.Errorf("expected ErrInsufficientRepayment, got %v", err)
	}

	pool, _ := p.Pool(ctx)
	if !pool.FlashLoanActive {
		t.Error("loan cleared by rejected repayment")
	}
}

func TestFlashLoanCycle(t *testing.T) {
	p, led := fundedPool(t)
	ctx := context.Background()

	principal := 10 * sol
	fee := uint64(9_000_000) // floor(10e9 * 9 / 10000)

	if err := p.FlashBorrow(ctx, borrower, principal); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if got := led.Balance(domain.WSOLMint, borrower); got != principal {
		t.Errorf("borrower balance after borrow = %d, want %d", got, principal)
	}

	// Fund the fee and repay in full.
	led.MintTo(domain.WSOLMint, borrower, fee)
	if err := p.FlashRepay(ctx, borrower, principal+fee); err != nil {
		t.Fatalf("repay failed: %v", err)
	}

	pool, _ := p.Pool(ctx)
	if pool.FlashLoanActive {
		t.Error("loan still active after repayment")
	}
	if pool.TotalLoans != 1 {
		t.Errorf("TotalLoans = %d, want 1", pool.TotalLoans)
	}
	if pool.TotalFeesCollected != fee {
		t.Errorf("TotalFeesCollected = %d, want %d", pool.TotalFeesCollected, fee)
	}
	if got := led.Balance(domain.WSOLMint, pool.TokenAccount); got != 1_000*sol+fee {
		t.Errorf("pool balance = %d, want %d", got, 1_000*sol+fee)
	}

	// Pool is available again for the next cycle.
	if err := p.FlashBorrow(ctx, borrower, principal); err != nil {
		t.Errorf("borrow after repay failed: %v", err)
	}
}

func TestFlashRepay_OverpaymentAccepted(t *testing.T) {
	p, led := fundedPool(t)
	ctx := context.Background()

	if err := p.FlashBorrow(ctx, borrower, 10*sol); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}

	led.MintTo(domain.WSOLMint, borrower, sol)
	if err := p.FlashRepay(ctx, borrower, 11*sol); err != nil {
		t.Fatalf("overpayment rejected: %v", err)
	}

	// Fee accounting still records only the required fee.
	pool, _ := p.Pool(ctx)
	if pool.TotalFeesCollected != 9_000_000 {
		t.Errorf("TotalFeesCollected = %d, want 9000000", pool.TotalFeesCollected)
	}
}
