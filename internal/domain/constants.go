package domain

// Basis point denominator: 10000 bps = 100%.
const BpsDenominator uint64 = 10_000

// Flash loan pool parameters.
const (
	// DefaultFeeBps is the default flash loan fee (0.09%).
	DefaultFeeBps uint16 = 9

	// MaxFeeBps caps the pool fee at 1%.
	MaxFeeBps uint16 = 100

	// MinBorrowAmount is 0.01 SOL in lamports, rejects dust borrows.
	MinBorrowAmount uint64 = 10_000_000

	// MaxBorrowAmount is 1000 SOL in lamports, limits risk per loan.
	MaxBorrowAmount uint64 = 1_000_000_000_000
)

// Strategy validation bounds.
const (
	// MinProfitThresholdBps is the lowest acceptable profit threshold (0.1%).
	MinProfitThresholdBps uint16 = 10

	// MaxSlippageBps is the highest acceptable slippage tolerance (5%).
	MaxSlippageBps uint16 = 500

	// MaxVenues limits the number of DEX venues per strategy.
	MaxVenues = 5

	// MaxTokenPairs limits the number of token pairs per strategy.
	MaxTokenPairs = 3
)

// Governance token parameters. The token has 9 decimals, so amounts are
// expressed in base units of 1e-9 tokens.
const (
	TokenDecimals = 9

	// TotalSupply is 100M governance tokens in base units.
	TotalSupply uint64 = 100_000_000 * 1_000_000_000

	// ProposalThreshold is the minimum balance (1,000 tokens) to propose.
	ProposalThreshold uint64 = 1_000 * 1_000_000_000
)

// Initial token distribution percentages, summing to 100.
const (
	CommunityAllocationPct uint64 = 40
	TreasuryAllocationPct  uint64 = 30
	TeamAllocationPct      uint64 = 20
	LiquidityAllocationPct uint64 = 10
)

// Governance voting parameters.
const (
	// DefaultQuorumPercentage of circulating supply must participate.
	DefaultQuorumPercentage uint8 = 10

	// DefaultVotingPeriodSeconds keeps proposals open for 3 days.
	DefaultVotingPeriodSeconds int64 = 3 * 24 * 60 * 60

	// MaxDescriptionLen bounds proposal descriptions.
	MaxDescriptionLen = 200
)

// Profit distribution split in basis points. Must sum to BpsDenominator.
const (
	CreatorShareBps  uint64 = 4000
	ExecutorShareBps uint64 = 4000
	TreasuryShareBps uint64 = 2000
)

// Allocation returns the vault allocation for a distribution percentage.
func Allocation(totalSupply, percentage uint64) uint64 {
	return totalSupply * percentage / 100
}
