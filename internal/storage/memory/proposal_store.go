package memory

import (
	"context"
	"sort"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// ProposalStore is an in-memory implementation of storage.ProposalStore.
type ProposalStore struct {
	mu   sync.RWMutex
	data map[uint64]*domain.Proposal
}

// NewProposalStore creates a new in-memory proposal store.
func NewProposalStore() *ProposalStore {
	return &ProposalStore{data: make(map[uint64]*domain.Proposal)}
}

// Insert adds a new proposal. Returns ErrDuplicateKey if the id exists.
func (s *ProposalStore) Insert(_ context.Context, p *domain.Proposal) error {
	if p == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ProposalID]; exists {
		return storage.ErrDuplicateKey
	}

	proposalCopy := *p
	s.data[p.ProposalID] = &proposalCopy
	return nil
}

// Get retrieves a proposal by id. Returns ErrNotFound if absent.
func (s *ProposalStore) Get(_ context.Context, proposalID uint64) (*domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[proposalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	proposalCopy := *p
	return &proposalCopy, nil
}

// Update overwrites an existing proposal. Returns ErrNotFound if absent.
func (s *ProposalStore) Update(_ context.Context, p *domain.Proposal) error {
	if p == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ProposalID]; !exists {
		return storage.ErrNotFound
	}

	proposalCopy := *p
	s.data[p.ProposalID] = &proposalCopy
	return nil
}

// List returns all proposals ordered by id.
func (s *ProposalStore) List(_ context.Context) ([]*domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Proposal, 0, len(s.data))
	for _, p := range s.data {
		proposalCopy := *p
		result = append(result, &proposalCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ProposalID < result[j].ProposalID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ProposalStore = (*ProposalStore)(nil)
