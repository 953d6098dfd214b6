package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// VoteRecordStore implements storage.VoteRecordStore using PostgreSQL.
// The (proposal_id, voter) primary key is the double-vote guard: the
// unique violation surfaces as ErrDuplicateKey.
type VoteRecordStore struct {
	pool *Pool
}

// NewVoteRecordStore creates a new VoteRecordStore.
func NewVoteRecordStore(pool *Pool) *VoteRecordStore {
	return &VoteRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VoteRecordStore = (*VoteRecordStore)(nil)

// Insert adds a vote record. Returns ErrDuplicateKey if the voter has
// already voted on the proposal.
func (s *VoteRecordStore) Insert(ctx context.Context, r *domain.VoteRecord) error {
	query := `
		INSERT INTO vote_records (proposal_id, voter, choice, weight, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		int64(r.ProposalID),
		string(r.Voter),
		string(r.Choice),
		int64(r.Weight),
		r.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert vote record: %w", err)
	}
	return nil
}

// Get retrieves one vote record. Returns ErrNotFound if absent.
func (s *VoteRecordStore) Get(ctx context.Context, proposalID uint64, voter domain.Address) (*domain.VoteRecord, error) {
	query := `
		SELECT proposal_id, voter, choice, weight, cast_at
		FROM vote_records
		WHERE proposal_id = $1 AND voter = $2
	`

	row := s.pool.QueryRow(ctx, query, int64(proposalID), string(voter))
	r, err := scanVoteRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vote record: %w", err)
	}
	return r, nil
}

// ListByProposal returns all vote records for a proposal, ordered by voter.
func (s *VoteRecordStore) ListByProposal(ctx context.Context, proposalID uint64) ([]*domain.VoteRecord, error) {
	query := `
		SELECT proposal_id, voter, choice, weight, cast_at
		FROM vote_records
		WHERE proposal_id = $1
		ORDER BY voter ASC
	`

	rows, err := s.pool.Query(ctx, query, int64(proposalID))
	if err != nil {
		return nil, fmt.Errorf("list vote records: %w", err)
	}
	defer rows.Close()

	var records []*domain.VoteRecord
	for rows.Next() {
		r, err := scanVoteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vote record rows: %w", err)
	}
	return records, nil
}

func scanVoteRecord(row pgx.Row) (*domain.VoteRecord, error) {
	var (
		r          domain.VoteRecord
		proposalID int64
		voter      string
		choice     string
		weight     int64
	)

	err := row.Scan(&proposalID, &voter, &choice, &weight, &r.Timestamp)
	if err != nil {
		return nil, err
	}

	r.ProposalID = uint64(proposalID)
	r.Voter = domain.Address(voter)
	r.Choice = domain.VoteChoice(choice)
	r.Weight = uint64(weight)
	return &r, nil
}
