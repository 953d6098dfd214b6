package postgres

import (
	"context"
	"fmt"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL. The pool is a
// single-row table; a CHECK constraint pins the row id to 1.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Init creates the pool singleton. Returns ErrAlreadyInitialized on a
// second call.
func (s *PoolStore) Init(ctx context.Context, p *domain.FlashLoanPool) error {
	query := `
		INSERT INTO flash_loan_pool (
			id, authority, token_account, fee_bps,
			total_deposited, total_loans, total_fees_collected,
			flash_loan_active, active_borrow_amount
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		string(p.Authority),
		string(p.TokenAccount),
		int32(p.FeeBps),
		int64(p.TotalDeposited),
		int64(p.TotalLoans),
		int64(p.TotalFeesCollected),
		p.FlashLoanActive,
		int64(p.ActiveBorrowAmount),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrAlreadyInitialized
		}
		return fmt.Errorf("init pool: %w", err)
	}
	return nil
}

// Get retrieves the pool. Returns ErrNotFound before Init.
func (s *PoolStore) Get(ctx context.Context) (*domain.FlashLoanPool, error) {
	query := `
		SELECT authority, token_account, fee_bps,
		       total_deposited, total_loans, total_fees_collected,
		       flash_loan_active, active_borrow_amount
		FROM flash_loan_pool
		WHERE id = 1
	`

	var (
		p              domain.FlashLoanPool
		authority      string
		tokenAccount   string
		feeBps         int32
		totalDeposited int64
		totalLoans     int64
		totalFees      int64
		activeBorrow   int64
	)
	err := s.pool.QueryRow(ctx, query).Scan(
		&authority,
		&tokenAccount,
		&feeBps,
		&totalDeposited,
		&totalLoans,
		&totalFees,
		&p.FlashLoanActive,
		&activeBorrow,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}

	p.Authority = domain.Address(authority)
	p.TokenAccount = domain.Address(tokenAccount)
	p.FeeBps = uint16(feeBps)
	p.TotalDeposited = uint64(totalDeposited)
	p.TotalLoans = uint64(totalLoans)
	p.TotalFeesCollected = uint64(totalFees)
	p.ActiveBorrowAmount = uint64(activeBorrow)
	return &p, nil
}

// Update overwrites the pool. Returns ErrNotFound before Init.
func (s *PoolStore) Update(ctx context.Context, p *domain.FlashLoanPool) error {
	query := `
		UPDATE flash_loan_pool SET
			authority = $1, token_account = $2, fee_bps = $3,
			total_deposited = $4, total_loans = $5, total_fees_collected = $6,
			flash_loan_active = $7, active_borrow_amount = $8
		WHERE id = 1
	`

	tag, err := s.pool.Exec(ctx, query,
		string(p.Authority),
		string(p.TokenAccount),
		int32(p.FeeBps),
		int64(p.TotalDeposited),
		int64(p.TotalLoans),
		int64(p.TotalFeesCollected),
		p.FlashLoanActive,
		int64(p.ActiveBorrowAmount),
	)
	if err != nil {
		return fmt.Errorf("update pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
