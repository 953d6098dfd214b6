package postgres

import (
	"context"
	"fmt"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// GovernanceStore implements storage.GovernanceStore using PostgreSQL.
// Config and treasury are single-row tables pinned to id 1.
type GovernanceStore struct {
	pool *Pool
}

// NewGovernanceStore creates a new GovernanceStore.
func NewGovernanceStore(pool *Pool) *GovernanceStore {
	return &GovernanceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GovernanceStore = (*GovernanceStore)(nil)

// InitConfig creates the governance config singleton.
func (s *GovernanceStore) InitConfig(ctx context.Context, c *domain.GovernanceConfig) error {
	query := `
		INSERT INTO governance_config (
			id, mint, authority, total_supply, circulating_supply,
			quorum_percentage, voting_period_seconds, proposal_threshold,
			next_proposal_id, total_proposals, distribution_completed,
			community_vault, treasury_vault, team_vault, liquidity_vault
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		string(c.Mint),
		string(c.Authority),
		int64(c.TotalSupply),
		int64(c.CirculatingSupply),
		int32(c.QuorumPercentage),
		c.VotingPeriodSeconds,
		int64(c.ProposalThreshold),
		int64(c.NextProposalID),
		int64(c.TotalProposals),
		c.DistributionCompleted,
		string(c.CommunityVault),
		string(c.TreasuryVault),
		string(c.TeamVault),
		string(c.LiquidityVault),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrAlreadyInitialized
		}
		return fmt.Errorf("init governance config: %w", err)
	}
	return nil
}

// GetConfig retrieves the governance config. Returns ErrNotFound before
// initialization.
func (s *GovernanceStore) GetConfig(ctx context.Context) (*domain.GovernanceConfig, error) {
	query := `
		SELECT mint, authority, total_supply, circulating_supply,
		       quorum_percentage, voting_period_seconds, proposal_threshold,
		       next_proposal_id, total_proposals, distribution_completed,
		       community_vault, treasury_vault, team_vault, liquidity_vault
		FROM governance_config
		WHERE id = 1
	`

	var (
		c              domain.GovernanceConfig
		mint           string
		authority      string
		totalSupply    int64
		circulating    int64
		quorumPct      int32
		threshold      int64
		nextProposalID int64
		totalProposals int64
		communityVault string
		treasuryVault  string
		teamVault      string
		liquidityVault string
	)
	err := s.pool.QueryRow(ctx, query).Scan(
		&mint,
		&authority,
		&totalSupply,
		&circulating,
		&quorumPct,
		&c.VotingPeriodSeconds,
		&threshold,
		&nextProposalID,
		&totalProposals,
		&c.DistributionCompleted,
		&communityVault,
		&treasuryVault,
		&teamVault,
		&liquidityVault,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get governance config: %w", err)
	}

	c.Mint = domain.Address(mint)
	c.Authority = domain.Address(authority)
	c.TotalSupply = uint64(totalSupply)
	c.CirculatingSupply = uint64(circulating)
	c.QuorumPercentage = uint8(quorumPct)
	c.ProposalThreshold = uint64(threshold)
	c.NextProposalID = uint64(nextProposalID)
	c.TotalProposals = uint64(totalProposals)
	c.CommunityVault = domain.Address(communityVault)
	c.TreasuryVault = domain.Address(treasuryVault)
	c.TeamVault = domain.Address(teamVault)
	c.LiquidityVault = domain.Address(liquidityVault)
	return &c, nil
}

// UpdateConfig overwrites the governance config.
func (s *GovernanceStore) UpdateConfig(ctx context.Context, c *domain.GovernanceConfig) error {
	query := `
		UPDATE governance_config SET
			mint = $1, authority = $2, total_supply = $3, circulating_supply = $4,
			quorum_percentage = $5, voting_period_seconds = $6, proposal_threshold = $7,
			next_proposal_id = $8, total_proposals = $9, distribution_completed = $10,
			community_vault = $11, treasury_vault = $12, team_vault = $13, liquidity_vault = $14
		WHERE id = 1
	`

	tag, err := s.pool.Exec(ctx, query,
		string(c.Mint),
		string(c.Authority),
		int64(c.TotalSupply),
		int64(c.CirculatingSupply),
		int32(c.QuorumPercentage),
		c.VotingPeriodSeconds,
		int64(c.ProposalThreshold),
		int64(c.NextProposalID),
		int64(c.TotalProposals),
		c.DistributionCompleted,
		string(c.CommunityVault),
		string(c.TreasuryVault),
		string(c.TeamVault),
		string(c.LiquidityVault),
	)
	if err != nil {
		return fmt.Errorf("update governance config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// InitTreasury creates the treasury singleton.
func (s *GovernanceStore) InitTreasury(ctx context.Context, t *domain.Treasury) error {
	query := `
		INSERT INTO governance_treasury (id, authority, total_received, total_spent)
		VALUES (1, $1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query,
		string(t.Authority),
		int64(t.TotalReceived),
		int64(t.TotalSpent),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrAlreadyInitialized
		}
		return fmt.Errorf("init treasury: %w", err)
	}
	return nil
}

// GetTreasury retrieves the treasury. Returns ErrNotFound before
// initialization.
func (s *GovernanceStore) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	query := `
		SELECT authority, total_received, total_spent
		FROM governance_treasury
		WHERE id = 1
	`

	var (
		t             domain.Treasury
		authority     string
		totalReceived int64
		totalSpent    int64
	)
	err := s.pool.QueryRow(ctx, query).Scan(&authority, &totalReceived, &totalSpent)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get treasury: %w", err)
	}

	t.Authority = domain.Address(authority)
	t.TotalReceived = uint64(totalReceived)
	t.TotalSpent = uint64(totalSpent)
	return &t, nil
}

// UpdateTreasury overwrites the treasury.
func (s *GovernanceStore) UpdateTreasury(ctx context.Context, t *domain.Treasury) error {
	query := `
		UPDATE governance_treasury SET authority = $1, total_received = $2, total_spent = $3
		WHERE id = 1
	`

	tag, err := s.pool.Exec(ctx, query,
		string(t.Authority),
		int64(t.TotalReceived),
		int64(t.TotalSpent),
	)
	if err != nil {
		return fmt.Errorf("update treasury: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
