package memory

import (
	"context"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// ExecutionStore is an in-memory implementation of
// storage.ExecutionStore: an append-only log of completed cycles.
type ExecutionStore struct {
	mu   sync.RWMutex
	data []*domain.ExecutionRecord
}

// NewExecutionStore creates a new in-memory execution store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{}
}

// Append adds a record to the history.
func (s *ExecutionStore) Append(_ context.Context, r *domain.ExecutionRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	s.data = append(s.data, &recordCopy)
	return nil
}

// ListByStrategy returns all records for a strategy in append order.
func (s *ExecutionStore) ListByStrategy(_ context.Context, creator domain.Address, strategyID uint64) ([]*domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ExecutionRecord
	for _, r := range s.data {
		if r.StrategyCreator == creator && r.StrategyID == strategyID {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ExecutionStore = (*ExecutionStore)(nil)
