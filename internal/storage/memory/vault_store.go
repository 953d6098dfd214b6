package memory

import (
	"context"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// VaultStore is an in-memory implementation of storage.VaultStore: the
// execution vault and profit config singleton slots. The profit config is
// immutable after initialization, so there is no update path for it.
type VaultStore struct {
	mu           sync.RWMutex
	vault        *domain.ExecutionVault
	profitConfig *domain.ProfitConfig
}

// NewVaultStore creates a new in-memory vault store.
func NewVaultStore() *VaultStore {
	return &VaultStore{}
}

// InitVault creates the vault singleton. Returns ErrAlreadyInitialized on
// a second call.
func (s *VaultStore) InitVault(_ context.Context, v *domain.ExecutionVault) error {
	if v == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault != nil {
		return storage.ErrAlreadyInitialized
	}

	vaultCopy := *v
	s.vault = &vaultCopy
	return nil
}

// GetVault returns the vault. Returns ErrNotFound if not initialized.
func (s *VaultStore) GetVault(_ context.Context) (*domain.ExecutionVault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vault == nil {
		return nil, storage.ErrNotFound
	}

	vaultCopy := *s.vault
	return &vaultCopy, nil
}

// UpdateVault overwrites the vault. Returns ErrNotFound if not
// initialized.
func (s *VaultStore) UpdateVault(_ context.Context, v *domain.ExecutionVault) error {
	if v == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vault == nil {
		return storage.ErrNotFound
	}

	vaultCopy := *v
	s.vault = &vaultCopy
	return nil
}

// InitProfitConfig creates the profit config singleton. Returns
// ErrAlreadyInitialized on a second call.
func (s *VaultStore) InitProfitConfig(_ context.Context, c *domain.ProfitConfig) error {
	if c == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profitConfig != nil {
		return storage.ErrAlreadyInitialized
	}

	configCopy := *c
	s.profitConfig = &configCopy
	return nil
}

// GetProfitConfig returns the profit config. Returns ErrNotFound if not
// initialized.
func (s *VaultStore) GetProfitConfig(_ context.Context) (*domain.ProfitConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profitConfig == nil {
		return nil, storage.ErrNotFound
	}

	configCopy := *s.profitConfig
	return &configCopy, nil
}

// Verify interface compliance at compile time.
var _ storage.VaultStore = (*VaultStore)(nil)
