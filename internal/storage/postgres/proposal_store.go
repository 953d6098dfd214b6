package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// ProposalStore implements storage.ProposalStore using PostgreSQL.
type ProposalStore struct {
	pool *Pool
}

// NewProposalStore creates a new ProposalStore.
func NewProposalStore(pool *Pool) *ProposalStore {
	return &ProposalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProposalStore = (*ProposalStore)(nil)

// Insert adds a new proposal. Returns ErrDuplicateKey if proposal_id exists.
func (s *ProposalStore) Insert(ctx context.Context, p *domain.Proposal) error {
	query := `
		INSERT INTO proposals (
			proposal_id, proposer, strategy_creator, strategy_id, description,
			voting_starts, voting_ends, votes_yes, votes_no, votes_abstain, executed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		int64(p.ProposalID),
		string(p.Proposer),
		string(p.StrategyCreator),
		int64(p.StrategyID),
		p.Description,
		p.VotingStarts,
		p.VotingEnds,
		int64(p.VotesYes),
		int64(p.VotesNo),
		int64(p.VotesAbstain),
		p.Executed,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

// Get retrieves a proposal by id. Returns ErrNotFound if absent.
func (s *ProposalStore) Get(ctx context.Context, proposalID uint64) (*domain.Proposal, error) {
	query := `
		SELECT proposal_id, proposer, strategy_creator, strategy_id, description,
		       voting_starts, voting_ends, votes_yes, votes_no, votes_abstain, executed
		FROM proposals
		WHERE proposal_id = $1
	`

	row := s.pool.QueryRow(ctx, query, int64(proposalID))
	p, err := scanProposal(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

// Update overwrites an existing proposal. Returns ErrNotFound if absent.
func (s *ProposalStore) Update(ctx context.Context, p *domain.Proposal) error {
	query := `
		UPDATE proposals SET
			proposer = $2, strategy_creator = $3, strategy_id = $4, description = $5,
			voting_starts = $6, voting_ends = $7,
			votes_yes = $8, votes_no = $9, votes_abstain = $10, executed = $11
		WHERE proposal_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		int64(p.ProposalID),
		string(p.Proposer),
		string(p.StrategyCreator),
		int64(p.StrategyID),
		p.Description,
		p.VotingStarts,
		p.VotingEnds,
		int64(p.VotesYes),
		int64(p.VotesNo),
		int64(p.VotesAbstain),
		p.Executed,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List returns all proposals ordered by id.
func (s *ProposalStore) List(ctx context.Context) ([]*domain.Proposal, error) {
	query := `
		SELECT proposal_id, proposer, strategy_creator, strategy_id, description,
		       voting_starts, voting_ends, votes_yes, votes_no, votes_abstain, executed
		FROM proposals
		ORDER BY proposal_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal row: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposal rows: %w", err)
	}
	return proposals, nil
}

func scanProposal(row pgx.Row) (*domain.Proposal, error) {
	var (
		p            domain.Proposal
		proposalID   int64
		proposer     string
		creator      string
		strategyID   int64
		votesYes     int64
		votesNo      int64
		votesAbstain int64
	)

	err := row.Scan(
		&proposalID,
		&proposer,
		&creator,
		&strategyID,
		&p.Description,
		&p.VotingStarts,
		&p.VotingEnds,
		&votesYes,
		&votesNo,
		&votesAbstain,
		&p.Executed,
	)
	if err != nil {
		return nil, err
	}

	p.ProposalID = uint64(proposalID)
	p.Proposer = domain.Address(proposer)
	p.StrategyCreator = domain.Address(creator)
	p.StrategyID = uint64(strategyID)
	p.VotesYes = uint64(votesYes)
	p.VotesNo = uint64(votesNo)
	p.VotesAbstain = uint64(votesAbstain)
	return &p, nil
}
