package memory

import (
	"context"
	"sort"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

type strategyKey struct {
	creator    domain.Address
	strategyID uint64
}

// StrategyStore is an in-memory implementation of storage.StrategyStore.
type StrategyStore struct {
	mu   sync.RWMutex
	data map[strategyKey]*domain.StrategyAccount
}

// NewStrategyStore creates a new in-memory strategy store.
func NewStrategyStore() *StrategyStore {
	return &StrategyStore{data: make(map[strategyKey]*domain.StrategyAccount)}
}

// Insert adds a new strategy. Returns ErrDuplicateKey if the key exists.
func (s *StrategyStore) Insert(_ context.Context, strat *domain.StrategyAccount) error {
	if strat == nil || strat.Creator == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strategyKey{strat.Creator, strat.StrategyID}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[key] = copyStrategy(strat)
	return nil
}

// Get retrieves a strategy by key. Returns ErrNotFound if absent.
func (s *StrategyStore) Get(_ context.Context, creator domain.Address, strategyID uint64) (*domain.StrategyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strat, exists := s.data[strategyKey{creator, strategyID}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyStrategy(strat), nil
}

// Update overwrites an existing strategy. Returns ErrNotFound if absent.
func (s *StrategyStore) Update(_ context.Context, strat *domain.StrategyAccount) error {
	if strat == nil || strat.Creator == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strategyKey{strat.Creator, strat.StrategyID}
	if _, exists := s.data[key]; !exists {
		return storage.ErrNotFound
	}

	s.data[key] = copyStrategy(strat)
	return nil
}

// ListByCreator returns all strategies for a creator, ordered by id.
func (s *StrategyStore) ListByCreator(_ context.Context, creator domain.Address) ([]*domain.StrategyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StrategyAccount
	for key, strat := range s.data {
		if key.creator == creator {
			result = append(result, copyStrategy(strat))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StrategyID < result[j].StrategyID
	})

	return result, nil
}

// copyStrategy deep-copies a strategy to prevent external mutation.
func copyStrategy(s *domain.StrategyAccount) *domain.StrategyAccount {
	c := *s
	c.Venues = append([]string(nil), s.Venues...)
	c.TokenPairs = append([]domain.TokenPair(nil), s.TokenPairs...)
	return &c
}

// Verify interface compliance at compile time.
var _ storage.StrategyStore = (*StrategyStore)(nil)
