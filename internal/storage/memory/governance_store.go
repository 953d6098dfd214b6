package memory

import (
	"context"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// GovernanceStore is an in-memory implementation of
// storage.GovernanceStore: the config and treasury singleton slots.
type GovernanceStore struct {
	mu       sync.RWMutex
	config   *domain.GovernanceConfig
	treasury *domain.Treasury
}

// NewGovernanceStore creates a new in-memory governance store.
func NewGovernanceStore() *GovernanceStore {
	return &GovernanceStore{}
}

// InitConfig creates the config singleton. Returns ErrAlreadyInitialized
// on a second call.
func (s *GovernanceStore) InitConfig(_ context.Context, c *domain.GovernanceConfig) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config != nil {
		return storage.ErrAlreadyInitialized
	}

	configCopy := *c
	s.config = &configCopy
	return nil
}

// GetConfig returns the config. Returns ErrNotFound if not initialized.
func (s *GovernanceStore) GetConfig(_ context.Context) (*domain.GovernanceConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, storage.ErrNotFound
	}

	configCopy := *s.config
	return &configCopy, nil
}

// UpdateConfig overwrites the config. Returns ErrNotFound if not
// initialized.
func (s *GovernanceStore) UpdateConfig(_ context.Context, c *domain.GovernanceConfig) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config == nil {
		return storage.ErrNotFound
	}

	configCopy := *c
	s.config = &configCopy
	return nil
}

// InitTreasury creates the treasury singleton. Returns
// ErrAlreadyInitialized on a second call.
func (s *GovernanceStore) InitTreasury(_ context.Context, t *domain.Treasury) error {
	if t == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.treasury != nil {
		return storage.ErrAlreadyInitialized
	}

	treasuryCopy := *t
	s.treasury = &treasuryCopy
	return nil
}

// GetTreasury returns the treasury. Returns ErrNotFound if not
// initialized.
func (s *GovernanceStore) GetTreasury(_ context.Context) (*domain.Treasury, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.treasury == nil {
		return nil, storage.ErrNotFound
	}

	treasuryCopy := *s.treasury
	return &treasuryCopy, nil
}

// UpdateTreasury overwrites the treasury. Returns ErrNotFound if not
// initialized.
func (s *GovernanceStore) UpdateTreasury(_ context.Context, t *domain.Treasury) error {
	if t == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.treasury == nil {
		return storage.ErrNotFound
	}

	treasuryCopy := *t
	s.treasury = &treasuryCopy
	return nil
}

// Verify interface compliance at compile time.
var _ storage.GovernanceStore = (*GovernanceStore)(nil)
