package domain

// Address is a base58-encoded 32-byte account address.
type Address string

// StrategyStatus is the approval lifecycle state of a strategy.
type StrategyStatus string

// Strategy status constants. A strategy starts Pending and is moved to
// Approved or Rejected exactly once; both are terminal.
const (
	StatusPending  StrategyStatus = "PENDING"
	StatusApproved StrategyStatus = "APPROVED"
	StatusRejected StrategyStatus = "REJECTED"
)

// TokenPair is an ordered pair of token mints traded against each other.
type TokenPair struct {
	TokenA Address
	TokenB Address
}

// StrategyAccount stores an arbitrage strategy definition and its
// accumulated performance metrics. Keyed by (creator, strategy_id).
type StrategyAccount struct {
	Creator    Address
	StrategyID uint64

	// Venues are the DEX tags this strategy routes through (>= 1 required).
	Venues []string

	// TokenPairs traded by the strategy (>= 1 required, distinct tokens).
	TokenPairs []TokenPair

	// ProfitThresholdBps is the minimum profit floor, >= 10 bps.
	ProfitThresholdBps uint16

	// MaxSlippageBps is the slippage ceiling, <= 500 bps.
	MaxSlippageBps uint16

	Status StrategyStatus

	// Metrics, mutated only while the strategy is Approved.
	TotalProfit    uint64
	ExecutionCount uint64
	SuccessCount   uint64
	LastExecution  int64
}

// IsExecutable reports whether the strategy may be executed.
func (s *StrategyAccount) IsExecutable() bool {
	return s.Status == StatusApproved
}

// SuccessRate returns the success percentage in [0, 100].
func (s *StrategyAccount) SuccessRate() uint8 {
	if s.ExecutionCount == 0 {
		return 0
	}
	return uint8(s.SuccessCount * 100 / s.ExecutionCount)
}

// StrategyStats is the read-only projection returned by the registry.
type StrategyStats struct {
	StrategyID     uint64
	Creator        Address
	TotalProfit    uint64
	ExecutionCount uint64
	SuccessCount   uint64
	SuccessRate    uint8
	LastExecution  int64
	Status         StrategyStatus
}

// Stats builds the statistics projection for a strategy.
func (s *StrategyAccount) Stats() StrategyStats {
	return StrategyStats{
		StrategyID:     s.StrategyID,
		Creator:        s.Creator,
		TotalProfit:    s.TotalProfit,
		ExecutionCount: s.ExecutionCount,
		SuccessCount:   s.SuccessCount,
		SuccessRate:    s.SuccessRate(),
		LastExecution:  s.LastExecution,
		Status:         s.Status,
	}
}
