package memory

import (
	"context"
	"sort"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

type voteKey struct {
	proposalID uint64
	voter      domain.Address
}

// VoteRecordStore is an in-memory implementation of
// storage.VoteRecordStore. Insert of a duplicate (proposal, voter) key
// fails deterministically; it never overwrites.
type VoteRecordStore struct {
	mu   sync.RWMutex
	data map[voteKey]*domain.VoteRecord
}

// NewVoteRecordStore creates a new in-memory vote record store.
func NewVoteRecordStore() *VoteRecordStore {
	return &VoteRecordStore{data: make(map[voteKey]*domain.VoteRecord)}
}

// Insert adds a new vote record. Returns ErrDuplicateKey if the voter has
// already voted on the proposal.
func (s *VoteRecordStore) Insert(_ context.Context, r *domain.VoteRecord) error {
	if r == nil || r.Voter == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{r.ProposalID, r.Voter}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[key] = &recordCopy
	return nil
}

// Get retrieves a vote record. Returns ErrNotFound if absent.
func (s *VoteRecordStore) Get(_ context.Context, proposalID uint64, voter domain.Address) (*domain.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[voteKey{proposalID, voter}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// ListByProposal returns all vote records for a proposal ordered by voter.
func (s *VoteRecordStore) ListByProposal(_ context.Context, proposalID uint64) ([]*domain.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.VoteRecord
	for key, r := range s.data {
		if key.proposalID == proposalID {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Voter < result[j].Voter
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.VoteRecordStore = (*VoteRecordStore)(nil)
