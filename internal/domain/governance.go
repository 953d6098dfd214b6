package domain

// VoteChoice is a voter's position on a proposal.
type VoteChoice string

// Vote choice constants.
const (
	VoteYes     VoteChoice = "YES"
	VoteNo      VoteChoice = "NO"
	VoteAbstain VoteChoice = "ABSTAIN"
)

// GovernanceConfig is the singleton DAO configuration account.
type GovernanceConfig struct {
	// Mint of the governance token.
	Mint Address

	// Authority is the governance PDA that signs cross-program approvals.
	Authority Address

	TotalSupply uint64

	// CirculatingSupply starts at zero and becomes TotalSupply after the
	// one-time distribution event.
	CirculatingSupply uint64

	// QuorumPercentage of circulating supply required for a proposal to count.
	QuorumPercentage uint8

	// VotingPeriodSeconds keeps each proposal open for voting.
	VotingPeriodSeconds int64

	// ProposalThreshold is the minimum token balance to create a proposal.
	ProposalThreshold uint64

	NextProposalID uint64
	TotalProposals uint64

	DistributionCompleted bool

	// Token distribution vaults.
	CommunityVault Address
	TreasuryVault  Address
	TeamVault      Address
	LiquidityVault Address
}

// QuorumRequired returns the participation floor for the current
// circulating supply.
func (c *GovernanceConfig) QuorumRequired() uint64 {
	return c.CirculatingSupply * uint64(c.QuorumPercentage) / 100
}

// Proposal is a token-weighted vote to approve one strategy.
// Keyed by proposal_id.
type Proposal struct {
	ProposalID uint64
	Proposer   Address

	// StrategyToApprove references the strategy account under vote.
	StrategyCreator Address
	StrategyID      uint64

	Description string

	VotingStarts int64
	VotingEnds   int64

	VotesYes     uint64
	VotesNo      uint64
	VotesAbstain uint64

	// Executed is set exactly once when the proposal is resolved.
	Executed bool
}

// TotalVotes returns the combined token weight of all ballots.
func (p *Proposal) TotalVotes() uint64 {
	return p.VotesYes + p.VotesNo + p.VotesAbstain
}

// VotingEnded reports whether the voting window has closed at now.
func (p *Proposal) VotingEnded(now int64) bool {
	return now > p.VotingEnds
}

// VoteRecord is the permanent double-vote guard. Its existence for
// (proposal, voter) is the sole evidence that the voter has voted.
type VoteRecord struct {
	ProposalID uint64
	Voter      Address
	Weight     uint64
	Choice     VoteChoice
	Timestamp  int64
}

// Treasury accumulates deposits from the execution engine and from
// direct governance deposits.
type Treasury struct {
	Authority     Address
	TotalReceived uint64
	TotalSpent    uint64
}

// AvailableBalance returns the unspent treasury balance.
func (t *Treasury) AvailableBalance() uint64 {
	if t.TotalSpent > t.TotalReceived {
		return 0
	}
	return t.TotalReceived - t.TotalSpent
}
