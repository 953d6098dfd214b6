// Package governance implements the DAO program: token-weighted proposal
// creation, voting, quorum resolution, and cross-program strategy
// approval, plus the DAO treasury.
package governance

import (
	"context"
	"errors"
	"fmt"
	"log"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/pda"
	"solana-arb-dao/internal/storage"
)

// StrategyApprover is the capability the registry exposes specifically to
// governance. The DAO holds a delegated authority over this entry point
// rather than reusing the human-admin path.
type StrategyApprover interface {
	ApproveByGovernance(ctx context.Context, caller, creator domain.Address, strategyID uint64) error
}

// Program is the DAO governance program.
type Program struct {
	ledger   *ledger.Ledger
	store    storage.GovernanceStore
	props    storage.ProposalStore
	votes    storage.VoteRecordStore
	approver StrategyApprover
	bus      *events.Bus
	clock    domain.Clock
	logger   *log.Logger

	// solMint denominates treasury deposits (profit share arrives in SOL).
	solMint domain.Address
}

// Options configures a governance Program.
type Options struct {
	Ledger    *ledger.Ledger
	Store     storage.GovernanceStore
	Proposals storage.ProposalStore
	Votes     storage.VoteRecordStore
	Approver  StrategyApprover
	Bus       *events.Bus
	Clock     domain.Clock
	Logger    *log.Logger
}

// New creates a governance program.
func New(opts Options) *Program {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Program{
		ledger:   opts.Ledger,
		store:    opts.Store,
		props:    opts.Proposals,
		votes:    opts.Votes,
		approver: opts.Approver,
		bus:      opts.Bus,
		clock:    opts.Clock,
		logger:   opts.Logger,
		solMint:  domain.WSOLMint,
	}
}

// InitParams overrides governance defaults, mainly for tests.
type InitParams struct {
	TotalSupply         uint64
	QuorumPercentage    uint8
	VotingPeriodSeconds int64
	ProposalThreshold   uint64
}

// Authority is the DAO's signing address for cross-program calls.
func (p *Program) Authority() domain.Address {
	return pda.GovernanceAddress()
}

// Mint is the governance token mint.
func (p *Program) Mint() domain.Address {
	return pda.MintAddress()
}

// Initialize creates the governance config, treasury, token mint, and the
// four distribution vaults. One-time; a second call fails.
func (p *Program) Initialize(ctx context.Context, params InitParams) error {
	if params.TotalSupply == 0 {
		params.TotalSupply = domain.TotalSupply
	}
	if params.QuorumPercentage == 0 {
		params.QuorumPercentage = domain.DefaultQuorumPercentage
	}
	if params.VotingPeriodSeconds == 0 {
		params.VotingPeriodSeconds = domain.DefaultVotingPeriodSeconds
	}
	if params.ProposalThreshold == 0 {
		params.ProposalThreshold = domain.ProposalThreshold
	}

	config := &domain.GovernanceConfig{
		Mint:                pda.MintAddress(),
		Authority:           pda.GovernanceAddress(),
		TotalSupply:         params.TotalSupply,
		CirculatingSupply:   0,
		QuorumPercentage:    params.QuorumPercentage,
		VotingPeriodSeconds: params.VotingPeriodSeconds,
		ProposalThreshold:   params.ProposalThreshold,
		CommunityVault:      pda.VaultAddress("community_vault"),
		TreasuryVault:       pda.VaultAddress("treasury_vault"),
		TeamVault:           pda.VaultAddress("team_vault"),
		LiquidityVault:      pda.VaultAddress("liquidity_vault"),
	}
	if err := p.store.InitConfig(ctx, config); err != nil {
		return fmt.Errorf("initialize governance config: %w", err)
	}

	treasury := &domain.Treasury{Authority: config.Authority}
	if err := p.store.InitTreasury(ctx, treasury); err != nil {
		return fmt.Errorf("initialize treasury: %w", err)
	}

	p.logger.Printf("DAO governance initialized, total supply %d", config.TotalSupply)
	return nil
}

// DistributeTokens mints the full supply into the four vaults using the
// fixed 40/30/20/10 split and marks circulating supply. Guarded against
// double distribution.
func (p *Program) DistributeTokens(ctx context.Context) error {
	config, err := p.store.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("load governance config: %w", err)
	}

	if config.DistributionCompleted {
		return ErrDistributionCompleted
	}

	allocations := []struct {
		vault domain.Address
		pct   uint64
	}{
		{config.CommunityVault, domain.CommunityAllocationPct},
		{config.TreasuryVault, domain.TreasuryAllocationPct},
		{config.TeamVault, domain.TeamAllocationPct},
		{config.LiquidityVault, domain.LiquidityAllocationPct},
	}
	for _, a := range allocations {
		amount := domain.Allocation(config.TotalSupply, a.pct)
		if err := p.ledger.MintTo(config.Mint, a.vault, amount); err != nil {
			return fmt.Errorf("mint to vault %s: %w", a.vault, err)
		}
		p.logger.Printf("minted %d tokens to vault %s (%d%%)", amount, a.vault, a.pct)
	}

	config.CirculatingSupply = config.TotalSupply
	config.DistributionCompleted = true
	if err := p.store.UpdateConfig(ctx, config); err != nil {
		return fmt.Errorf("update governance config: %w", err)
	}

	p.logger.Printf("token distribution complete: %d in circulation", config.CirculatingSupply)
	return nil
}

// CreateProposal opens a vote to approve one strategy. The proposer must
// hold at least the proposal threshold of governance tokens.
func (p *Program) CreateProposal(
	ctx context.Context,
	proposer domain.Address,
	strategyCreator domain.Address,
	strategyID uint64,
	description string,
) (uint64, error) {
	config, err := p.store.GetConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("load governance config: %w", err)
	}

	if p.ledger.Balance(config.Mint, proposer) < config.ProposalThreshold {
		return 0, ErrInsufficientTokens
	}
	if len(description) > domain.MaxDescriptionLen {
		return 0, ErrDescriptionTooLong
	}

	now := p.clock()
	proposal := &domain.Proposal{
		ProposalID:      config.NextProposalID,
		Proposer:        proposer,
		StrategyCreator: strategyCreator,
		StrategyID:      strategyID,
		Description:     description,
		VotingStarts:    now,
		VotingEnds:      now + config.VotingPeriodSeconds,
	}
	if err := p.props.Insert(ctx, proposal); err != nil {
		return 0, fmt.Errorf("insert proposal: %w", err)
	}

	config.NextProposalID++
	config.TotalProposals++
	if err := p.store.UpdateConfig(ctx, config); err != nil {
		return 0, fmt.Errorf("update governance config: %w", err)
	}

	p.publish(domain.Event{
		Type:       domain.EventProposalCreated,
		Timestamp:  now,
		ProposalID: proposal.ProposalID,
		Actor:      proposer,
		Creator:    strategyCreator,
		StrategyID: strategyID,
	})

	p.logger.Printf("proposal %d created by %s, voting ends %d", proposal.ProposalID, proposer, proposal.VotingEnds)
	return proposal.ProposalID, nil
}

// CastVote adds the voter's full current token balance to one tally. The
// vote record is the permanent double-vote guard: a second vote from the
// same voter fails, it never overwrites.
func (p *Program) CastVote(ctx context.Context, voter domain.Address, proposalID uint64, choice domain.VoteChoice) error {
	config, err := p.store.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("load governance config: %w", err)
	}
	proposal, err := p.props.Get(ctx, proposalID)
	if err != nil {
		return fmt.Errorf("load proposal: %w", err)
	}

	now := p.clock()
	if proposal.VotingEnded(now) {
		return ErrVotingEnded
	}

	weight := p.ledger.Balance(config.Mint, voter)
	if weight == 0 {
		return ErrNoVotingPower
	}

	// Resolve the tally branch before persisting anything: an invalid
	// choice must not leave a VoteRecord behind, or the voter would be
	// locked out of the proposal by their own rejected ballot.
	switch choice {
	case domain.VoteYes:
		proposal.VotesYes += weight
	case domain.VoteNo:
		proposal.VotesNo += weight
	case domain.VoteAbstain:
		proposal.VotesAbstain += weight
	default:
		return storage.ErrInvalidInput
	}

	record := &domain.VoteRecord{
		ProposalID: proposalID,
		Voter:      voter,
		Weight:     weight,
		Choice:     choice,
		Timestamp:  now,
	}
	if err := p.votes.Insert(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("insert vote record: %w", err)
	}

	if err := p.props.Update(ctx, proposal); err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}

	p.publish(domain.Event{
		Type:       domain.EventVoteCast,
		Timestamp:  now,
		ProposalID: proposalID,
		Actor:      voter,
		Choice:     choice,
		Weight:     weight,
	})

	p.logger.Printf("vote cast on %d by %s: %s weight=%d", proposalID, voter, choice, weight)
	return nil
}

// ExecuteProposal resolves a proposal after its voting window. Quorum is
// measured against circulating supply; a passing proposal approves its
// strategy through the governance-authorized registry entry point and is
// marked executed exactly once.
func (p *Program) ExecuteProposal(ctx context.Context, proposalID uint64) error {
	config, err := p.store.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("load governance config: %w", err)
	}
	proposal, err := p.props.Get(ctx, proposalID)
	if err != nil {
		return fmt.Errorf("load proposal: %w", err)
	}

	now := p.clock()
	if !proposal.VotingEnded(now) {
		return ErrVotingStillActive
	}
	if proposal.Executed {
		return ErrAlreadyExecuted
	}

	if proposal.TotalVotes() < config.QuorumRequired() {
		return ErrQuorumNotReached
	}
	if proposal.VotesYes <= proposal.VotesNo {
		return ErrProposalDefeated
	}

	if err := p.approver.ApproveByGovernance(ctx, config.Authority, proposal.StrategyCreator, proposal.StrategyID); err != nil {
		return fmt.Errorf("approve strategy via governance: %w", err)
	}

	proposal.Executed = true
	if err := p.props.Update(ctx, proposal); err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}

	p.publish(domain.Event{
		Type:       domain.EventProposalExecuted,
		Timestamp:  now,
		ProposalID: proposalID,
		Creator:    proposal.StrategyCreator,
		StrategyID: proposal.StrategyID,
	})

	p.logger.Printf("proposal %d executed: yes=%d no=%d abstain=%d",
		proposalID, proposal.VotesYes, proposal.VotesNo, proposal.VotesAbstain)
	return nil
}

// DepositTreasury accepts a deposit from any identity and accumulates it
// unconditionally.
func (p *Program) DepositTreasury(ctx context.Context, depositor domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	treasury, err := p.store.GetTreasury(ctx)
	if err != nil {
		return fmt.Errorf("load treasury: %w", err)
	}

	if err := p.ledger.Transfer(p.solMint, depositor, pda.TreasuryAddress(), amount); err != nil {
		return fmt.Errorf("treasury transfer: %w", err)
	}

	treasury.TotalReceived += amount
	if err := p.store.UpdateTreasury(ctx, treasury); err != nil {
		return fmt.Errorf("update treasury: %w", err)
	}

	p.publish(domain.Event{
		Type:      domain.EventTreasuryDeposit,
		Timestamp: p.clock(),
		Actor:     depositor,
		Amount:    amount,
	})

	p.logger.Printf("treasury received %d from %s, total %d", amount, depositor, treasury.TotalReceived)
	return nil
}

// Proposal returns a copy of one proposal.
func (p *Program) Proposal(ctx context.Context, proposalID uint64) (*domain.Proposal, error) {
	return p.props.Get(ctx, proposalID)
}

// Proposals returns all proposals ordered by id.
func (p *Program) Proposals(ctx context.Context) ([]*domain.Proposal, error) {
	return p.props.List(ctx)
}

// Treasury returns a copy of the treasury account.
func (p *Program) Treasury(ctx context.Context) (*domain.Treasury, error) {
	return p.store.GetTreasury(ctx)
}

// Config returns a copy of the governance config.
func (p *Program) Config(ctx context.Context) (*domain.GovernanceConfig, error) {
	return p.store.GetConfig(ctx)
}

func (p *Program) publish(event domain.Event) {
	if p.bus != nil {
		p.bus.Publish(event)
	}
}
