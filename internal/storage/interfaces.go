// Package storage defines the persistence interfaces for ledger account
// records. Each entity is a separately addressable record with a
// deterministic, collision-free key.
package storage

import (
	"context"

	"solana-arb-dao/internal/domain"
)

// StrategyStore persists strategy accounts keyed by (creator, strategy_id).
type StrategyStore interface {
	// Insert adds a new strategy. Returns ErrDuplicateKey if the
	// (creator, strategy_id) key already exists.
	Insert(ctx context.Context, s *domain.StrategyAccount) error

	// Get retrieves a strategy. Returns ErrNotFound if absent.
	Get(ctx context.Context, creator domain.Address, strategyID uint64) (*domain.StrategyAccount, error)

	// Update overwrites an existing strategy. Returns ErrNotFound if absent.
	Update(ctx context.Context, s *domain.StrategyAccount) error

	// ListByCreator returns all strategies for a creator, ordered by id.
	ListByCreator(ctx context.Context, creator domain.Address) ([]*domain.StrategyAccount, error)
}

// ProposalStore persists governance proposals keyed by proposal_id.
type ProposalStore interface {
	Insert(ctx context.Context, p *domain.Proposal) error
	Get(ctx context.Context, proposalID uint64) (*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) error
	List(ctx context.Context) ([]*domain.Proposal, error)
}

// VoteRecordStore persists vote records keyed by (proposal_id, voter).
// Insert of a duplicate key must fail with ErrDuplicateKey: record
// existence is the sole double-vote guard.
type VoteRecordStore interface {
	Insert(ctx context.Context, r *domain.VoteRecord) error
	Get(ctx context.Context, proposalID uint64, voter domain.Address) (*domain.VoteRecord, error)
	ListByProposal(ctx context.Context, proposalID uint64) ([]*domain.VoteRecord, error)
}

// PoolStore persists the flash loan pool singleton. Init fails with
// ErrAlreadyInitialized on a second call.
type PoolStore interface {
	Init(ctx context.Context, p *domain.FlashLoanPool) error
	Get(ctx context.Context) (*domain.FlashLoanPool, error)
	Update(ctx context.Context, p *domain.FlashLoanPool) error
}

// GovernanceStore persists the governance config and treasury singletons.
type GovernanceStore interface {
	InitConfig(ctx context.Context, c *domain.GovernanceConfig) error
	GetConfig(ctx context.Context) (*domain.GovernanceConfig, error)
	UpdateConfig(ctx context.Context, c *domain.GovernanceConfig) error

	InitTreasury(ctx context.Context, t *domain.Treasury) error
	GetTreasury(ctx context.Context) (*domain.Treasury, error)
	UpdateTreasury(ctx context.Context, t *domain.Treasury) error
}

// VaultStore persists the execution vault and profit config singletons.
type VaultStore interface {
	InitVault(ctx context.Context, v *domain.ExecutionVault) error
	GetVault(ctx context.Context) (*domain.ExecutionVault, error)
	UpdateVault(ctx context.Context, v *domain.ExecutionVault) error

	InitProfitConfig(ctx context.Context, c *domain.ProfitConfig) error
	GetProfitConfig(ctx context.Context) (*domain.ProfitConfig, error)
}

// ExecutionStore is the append-only execution history used for off-chain
// analytics.
type ExecutionStore interface {
	Append(ctx context.Context, r *domain.ExecutionRecord) error
	ListByStrategy(ctx context.Context, creator domain.Address, strategyID uint64) ([]*domain.ExecutionRecord, error)
}
