// Package registry implements the strategy registry program: strategy
// definitions, the Pending/Approved/Rejected lifecycle, and accumulated
// performance metrics.
package registry

import (
	"context"
	"fmt"
	"log"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/storage"
)

// Program is the strategy registry program.
type Program struct {
	store  storage.StrategyStore
	bus    *events.Bus
	clock  domain.Clock
	logger *log.Logger

	mu sync.RWMutex
	// admin is the human approval authority, set once.
	admin domain.Address
	// governance is the DAO authority allowed to approve via the
	// governance-only entry point. Distinct from the admin path so the
	// authorization boundary stays explicit.
	governance domain.Address
}

// Options configures a registry Program.
type Options struct {
	Store  storage.StrategyStore
	Bus    *events.Bus
	Clock  domain.Clock
	Logger *log.Logger
}

// New creates a strategy registry program.
func New(opts Options) *Program {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Program{
		store:  opts.Store,
		bus:    opts.Bus,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

// InitializeAdmin sets the approval authority, once.
func (p *Program) InitializeAdmin(admin domain.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.admin != "" {
		return storage.ErrAlreadyInitialized
	}
	p.admin = admin
	p.logger.Printf("registry admin initialized: %s", admin)
	return nil
}

// SetGovernanceAuthority grants the DAO its approval capability. Only the
// admin may delegate it.
func (p *Program) SetGovernanceAuthority(caller, authority domain.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller == "" || caller != p.admin {
		return ErrUnauthorizedApprover
	}
	p.governance = authority
	return nil
}

// CreateStrategy validates and stores a new strategy with status Pending.
// The (creator, strategyID) key must be unused.
func (p *Program) CreateStrategy(
	ctx context.Context,
	creator domain.Address,
	strategyID uint64,
	venues []string,
	tokenPairs []domain.TokenPair,
	profitThresholdBps uint16,
	maxSlippageBps uint16,
) error {
	if profitThresholdBps < domain.MinProfitThresholdBps {
		return ErrProfitThresholdTooLow
	}
	if maxSlippageBps > domain.MaxSlippageBps {
		return ErrSlippageTooHigh
	}
	if len(venues) == 0 || len(venues) > domain.MaxVenues {
		return ErrNoDexSpecified
	}
	if len(tokenPairs) == 0 || len(tokenPairs) > domain.MaxTokenPairs {
		return ErrNoTokenPairSpecified
	}
	for _, pair := range tokenPairs {
		if pair.TokenA == pair.TokenB {
			return ErrInvalidTokenPair
		}
	}

	strategy := &domain.StrategyAccount{
		Creator:            creator,
		StrategyID:         strategyID,
		Venues:             venues,
		TokenPairs:         tokenPairs,
		ProfitThresholdBps: profitThresholdBps,
		MaxSlippageBps:     maxSlippageBps,
		Status:             domain.StatusPending,
	}
	if err := p.store.Insert(ctx, strategy); err != nil {
		return fmt.Errorf("insert strategy: %w", err)
	}

	p.publish(domain.Event{
		Type:       domain.EventStrategyCreated,
		Timestamp:  p.clock(),
		Creator:    creator,
		StrategyID: strategyID,
	})

	p.logger.Printf("strategy created: id=%d creator=%s", strategyID, creator)
	return nil
}

// ApproveStrategy moves a Pending strategy to Approved. Admin only.
func (p *Program) ApproveStrategy(ctx context.Context, caller, creator domain.Address, strategyID uint64) error {
	p.mu.RLock()
	authorized := caller != "" && caller == p.admin
	p.mu.RUnlock()
	if !authorized {
		return ErrUnauthorizedApprover
	}
	return p.setStatus(ctx, caller, creator, strategyID, domain.StatusApproved)
}

// RejectStrategy moves a Pending strategy to Rejected. Admin only.
func (p *Program) RejectStrategy(ctx context.Context, caller, creator domain.Address, strategyID uint64) error {
	p.mu.RLock()
	authorized := caller != "" && caller == p.admin
	p.mu.RUnlock()
	if !authorized {
		return ErrUnauthorizedApprover
	}
	return p.setStatus(ctx, caller, creator, strategyID, domain.StatusRejected)
}

// ApproveByGovernance is the cross-program entry point used when a DAO
// proposal passes. The caller must hold the delegated governance
// authority.
func (p *Program) ApproveByGovernance(ctx context.Context, caller, creator domain.Address, strategyID uint64) error {
	p.mu.RLock()
	authorized := caller != "" && caller == p.governance
	p.mu.RUnlock()
	if !authorized {
		return ErrUnauthorizedApprover
	}
	return p.setStatus(ctx, caller, creator, strategyID, domain.StatusApproved)
}

func (p *Program) setStatus(ctx context.Context, caller, creator domain.Address, strategyID uint64, status domain.StrategyStatus) error {
	strategy, err := p.store.Get(ctx, creator, strategyID)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	if strategy.Status != domain.StatusPending {
		return ErrInvalidStatus
	}

	strategy.Status = status
	if err := p.store.Update(ctx, strategy); err != nil {
		return fmt.Errorf("update strategy: %w", err)
	}

	eventType := domain.EventStrategyApproved
	if status == domain.StatusRejected {
		eventType = domain.EventStrategyRejected
	}
	p.publish(domain.Event{
		Type:       eventType,
		Timestamp:  p.clock(),
		Creator:    creator,
		StrategyID: strategyID,
		Actor:      caller,
	})

	p.logger.Printf("strategy %d %s by %s", strategyID, status, caller)
	return nil
}

// UpdateMetrics records one execution attempt. Only Approved strategies
// accumulate metrics; execution_count always increments, success_count
// and total_profit only on success.
func (p *Program) UpdateMetrics(ctx context.Context, executor, creator domain.Address, strategyID uint64, profit uint64, success bool) error {
	strategy, err := p.store.Get(ctx, creator, strategyID)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	if !strategy.IsExecutable() {
		return ErrStrategyNotApproved
	}

	strategy.ExecutionCount++
	if success {
		strategy.SuccessCount++
		strategy.TotalProfit += profit
	}
	strategy.LastExecution = p.clock()

	if err := p.store.Update(ctx, strategy); err != nil {
		return fmt.Errorf("update strategy: %w", err)
	}

	p.logger.Printf("strategy %d executed: success=%t profit=%d rate=%d%%",
		strategyID, success, profit, strategy.SuccessRate())
	return nil
}

// GetStrategyStats returns the read-only statistics projection.
func (p *Program) GetStrategyStats(ctx context.Context, creator domain.Address, strategyID uint64) (domain.StrategyStats, error) {
	strategy, err := p.store.Get(ctx, creator, strategyID)
	if err != nil {
		return domain.StrategyStats{}, fmt.Errorf("load strategy: %w", err)
	}
	return strategy.Stats(), nil
}

// GetStrategy returns a copy of the full strategy record.
func (p *Program) GetStrategy(ctx context.Context, creator domain.Address, strategyID uint64) (*domain.StrategyAccount, error) {
	return p.store.Get(ctx, creator, strategyID)
}

func (p *Program) publish(event domain.Event) {
	if p.bus != nil {
		p.bus.Publish(event)
	}
}
