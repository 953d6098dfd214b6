// Package flashloan implements the flash loan pool program: pooled
// liquidity lent out uncollateralized within a single atomic cycle
// against a fixed fee.
package flashloan

import (
	"context"
	"fmt"
	"log"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/pda"
	"solana-arb-dao/internal/storage"
)

// Program is the flash loan pool program.
type Program struct {
	ledger *ledger.Ledger
	store  storage.PoolStore
	bus    *events.Bus
	clock  domain.Clock
	logger *log.Logger

	// mint is the liquidity token (WSOL).
	mint domain.Address
}

// Options configures a flash loan Program.
type Options struct {
	Ledger *ledger.Ledger
	Store  storage.PoolStore
	Bus    *events.Bus
	Clock  domain.Clock
	Logger *log.Logger
	Mint   domain.Address
}

// New creates a flash loan program.
func New(opts Options) *Program {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Mint == "" {
		opts.Mint = domain.WSOLMint
	}
	return &Program{
		ledger: opts.Ledger,
		store:  opts.Store,
		bus:    opts.Bus,
		clock:  opts.Clock,
		logger: opts.Logger,
		mint:   opts.Mint,
	}
}

// PoolAccount is the ledger account holding pool liquidity.
func (p *Program) PoolAccount() domain.Address {
	return pda.PoolAddress()
}

// InitializePool creates the pool singleton with the given fee. A second
// initialization fails; idempotency is deliberately not provided.
func (p *Program) InitializePool(ctx context.Context, authority domain.Address, feeBps uint16) error {
	if feeBps > domain.MaxFeeBps {
		return ErrFeeTooHigh
	}

	pool := &domain.FlashLoanPool{
		Authority:    pda.PoolAuthority(),
		TokenAccount: pda.PoolAddress(),
		FeeBps:       feeBps,
	}
	if err := p.store.Init(ctx, pool); err != nil {
		return fmt.Errorf("initialize pool: %w", err)
	}

	p.logger.Printf("flash loan pool initialized with fee %d bps", feeBps)
	return nil
}

// DepositLiquidity transfers amount from the depositor into the pool.
// Any positive amount is accepted.
func (p *Program) DepositLiquidity(ctx context.Context, depositor domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	pool, err := p.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	if err := p.ledger.Transfer(p.mint, depositor, pool.TokenAccount, amount); err != nil {
		return fmt.Errorf("deposit transfer: %w", err)
	}

	pool.TotalDeposited += amount
	if err := p.store.Update(ctx, pool); err != nil {
		return fmt.Errorf("update pool: %w", err)
	}

	p.logger.Printf("deposited %d to flash loan pool, total deposited %d", amount, pool.TotalDeposited)
	return nil
}

// FlashBorrow lends amount to the borrower. Fails if a loan is already
// outstanding or the pool balance cannot cover the amount. The borrower
// must repay principal plus fee before any other pool operation succeeds.
func (p *Program) FlashBorrow(ctx context.Context, borrower domain.Address, amount uint64) error {
	pool, err := p.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	if pool.FlashLoanActive {
		return ErrFlashLoanActive
	}
	if amount < domain.MinBorrowAmount {
		return ErrBorrowAmountTooLow
	}
	if amount > domain.MaxBorrowAmount {
		return ErrBorrowAmountTooHigh
	}
	if p.ledger.Balance(p.mint, pool.TokenAccount) < amount {
		return ErrInsufficientLiquidity
	}

	if err := p.ledger.Transfer(p.mint, pool.TokenAccount, borrower, amount); err != nil {
		return fmt.Errorf("borrow transfer: %w", err)
	}

	pool.FlashLoanActive = true
	pool.ActiveBorrowAmount = amount
	if err := p.store.Update(ctx, pool); err != nil {
		return fmt.Errorf("update pool: %w", err)
	}

	p.logger.Printf("flash borrow %d by %s", amount, borrower)
	return nil
}

// FlashRepay settles the outstanding loan. The amount must cover
// principal plus floor(principal*fee_bps/10000); anything less is
// rejected without partial application.
func (p *Program) FlashRepay(ctx context.Context, borrower domain.Address, amount uint64) error {
	pool, err := p.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	if !pool.FlashLoanActive {
		return ErrNoActiveLoan
	}

	principal := pool.ActiveBorrowAmount
	fee := pool.Fee(principal)
	required := principal + fee
	if amount < required {
		return ErrInsufficientRepayment
	}

	if err := p.ledger.Transfer(p.mint, borrower, pool.TokenAccount, amount); err != nil {
		return fmt.Errorf("repay transfer: %w", err)
	}

	pool.FlashLoanActive = false
	pool.ActiveBorrowAmount = 0
	pool.TotalLoans++
	pool.TotalFeesCollected += fee
	if err := p.store.Update(ctx, pool); err != nil {
		return fmt.Errorf("update pool: %w", err)
	}

	if p.bus != nil {
		p.bus.Publish(domain.Event{
			Type:      domain.EventFlashLoan,
			Timestamp: p.clock(),
			Actor:     borrower,
			Amount:    principal,
			Fee:       fee,
		})
	}

	p.logger.Printf("flash loan repaid: principal=%d fee=%d total_loans=%d", principal, fee, pool.TotalLoans)
	return nil
}

// Pool returns a copy of the current pool state.
func (p *Program) Pool(ctx context.Context) (*domain.FlashLoanPool, error) {
	return p.store.Get(ctx)
}
