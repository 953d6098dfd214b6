package postgres

import (
	"context"
	"fmt"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// VaultStore implements storage.VaultStore using PostgreSQL. The vault
// and profit config are single-row tables pinned to id 1.
type VaultStore struct {
	pool *Pool
}

// NewVaultStore creates a new VaultStore.
func NewVaultStore(pool *Pool) *VaultStore {
	return &VaultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VaultStore = (*VaultStore)(nil)

// InitVault creates the execution vault singleton.
func (s *VaultStore) InitVault(ctx context.Context, v *domain.ExecutionVault) error {
	query := `
		INSERT INTO execution_vault (
			id, authority, available_liquidity, borrowed_amount,
			total_fees_collected, total_executions, total_profit_distributed
		) VALUES (1, $1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		string(v.Authority),
		int64(v.AvailableLiquidity),
		int64(v.BorrowedAmount),
		int64(v.TotalFeesCollected),
		int64(v.TotalExecutions),
		int64(v.TotalProfitDistributed),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrAlreadyInitialized
		}
		return fmt.Errorf("init vault: %w", err)
	}
	return nil
}

// GetVault retrieves the vault. Returns ErrNotFound before initialization.
func (s *VaultStore) GetVault(ctx context.Context) (*domain.ExecutionVault, error) {
	query := `
		SELECT authority, available_liquidity, borrowed_amount,
		       total_fees_collected, total_executions, total_profit_distributed
		FROM execution_vault
		WHERE id = 1
	`

	var (
		v           domain.ExecutionVault
		authority   string
		available   int64
		borrowed    int64
		fees        int64
		executions  int64
		distributed int64
	)
	err := s.pool.QueryRow(ctx, query).Scan(
		&authority, &available, &borrowed, &fees, &executions, &distributed,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vault: %w", err)
	}

	v.Authority = domain.Address(authority)
	v.AvailableLiquidity = uint64(available)
	v.BorrowedAmount = uint64(borrowed)
	v.TotalFeesCollected = uint64(fees)
	v.TotalExecutions = uint64(executions)
	v.TotalProfitDistributed = uint64(distributed)
	return &v, nil
}

// UpdateVault overwrites the vault.
func (s *VaultStore) UpdateVault(ctx context.Context, v *domain.ExecutionVault) error {
	query := `
		UPDATE execution_vault SET
			authority = $1, available_liquidity = $2, borrowed_amount = $3,
			total_fees_collected = $4, total_executions = $5, total_profit_distributed = $6
		WHERE id = 1
	`

	tag, err := s.pool.Exec(ctx, query,
		string(v.Authority),
		int64(v.AvailableLiquidity),
		int64(v.BorrowedAmount),
		int64(v.TotalFeesCollected),
		int64(v.TotalExecutions),
		int64(v.TotalProfitDistributed),
	)
	if err != nil {
		return fmt.Errorf("update vault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// InitProfitConfig creates the immutable profit split singleton.
func (s *VaultStore) InitProfitConfig(ctx context.Context, c *domain.ProfitConfig) error {
	query := `
		INSERT INTO profit_config (
			id, treasury, creator_share_bps, executor_share_bps, treasury_share_bps
		) VALUES (1, $1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		string(c.Treasury),
		int64(c.CreatorShareBps),
		int64(c.ExecutorShareBps),
		int64(c.TreasuryShareBps),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrAlreadyInitialized
		}
		return fmt.Errorf("init profit config: %w", err)
	}
	return nil
}

// GetProfitConfig retrieves the profit split. Returns ErrNotFound before
// initialization.
func (s *VaultStore) GetProfitConfig(ctx context.Context) (*domain.ProfitConfig, error) {
	query := `
		SELECT treasury, creator_share_bps, executor_share_bps, treasury_share_bps
		FROM profit_config
		WHERE id = 1
	`

	var (
		c        domain.ProfitConfig
		treasury string
		creator  int64
		executor int64
		share    int64
	)
	err := s.pool.QueryRow(ctx, query).Scan(&treasury, &creator, &executor, &share)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get profit config: %w", err)
	}

	c.Treasury = domain.Address(treasury)
	c.CreatorShareBps = uint64(creator)
	c.ExecutorShareBps = uint64(executor)
	c.TreasuryShareBps = uint64(share)
	return &c, nil
}
