package memory

import (
	"context"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore. The pool
// is a singleton slot with an explicit one-time initialization.
type PoolStore struct {
	mu   sync.RWMutex
	pool *domain.FlashLoanPool
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{}
}

// Init creates the pool singleton. Returns ErrAlreadyInitialized on a
// second call.
func (s *PoolStore) Init(_ context.Context, p *domain.FlashLoanPool) error {
	if p == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return storage.ErrAlreadyInitialized
	}

	poolCopy := *p
	s.pool = &poolCopy
	return nil
}

// Get returns the pool. Returns ErrNotFound if not initialized.
func (s *PoolStore) Get(_ context.Context) (*domain.FlashLoanPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pool == nil {
		return nil, storage.ErrNotFound
	}

	poolCopy := *s.pool
	return &poolCopy, nil
}

// Update overwrites the pool. Returns ErrNotFound if not initialized.
func (s *PoolStore) Update(_ context.Context, p *domain.FlashLoanPool) error {
	if p == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool == nil {
		return storage.ErrNotFound
	}

	poolCopy := *p
	s.pool = &poolCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PoolStore = (*PoolStore)(nil)
