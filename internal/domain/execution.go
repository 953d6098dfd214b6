package domain

import "errors"

// ErrInvalidProfitSplit is returned when the three shares do not sum to
// exactly 10000 bps.
var ErrInvalidProfitSplit = errors.New("profit shares must sum to 10000 basis points")

// ProfitConfig defines how net profit is split between the strategy
// creator, the executor, and the DAO treasury.
type ProfitConfig struct {
	Treasury Address

	CreatorShareBps  uint64
	ExecutorShareBps uint64
	TreasuryShareBps uint64
}

// Validate checks that the shares sum to exactly 100%.
func (c *ProfitConfig) Validate() error {
	if c.CreatorShareBps+c.ExecutorShareBps+c.TreasuryShareBps != BpsDenominator {
		return ErrInvalidProfitSplit
	}
	return nil
}

// Distribution splits netProfit into (creator, executor, treasury) amounts.
// The creator and executor shares use truncating division; the treasury
// takes the remainder, so the three amounts always sum to netProfit.
func (c *ProfitConfig) Distribution(netProfit uint64) (creator, executor, treasury uint64) {
	creator = netProfit * c.CreatorShareBps / BpsDenominator
	executor = netProfit * c.ExecutorShareBps / BpsDenominator
	treasury = netProfit - creator - executor
	return creator, executor, treasury
}

// ExecutionVault tracks working-capital liquidity available to the
// execution engine and its lifetime bookkeeping counters.
type ExecutionVault struct {
	Authority Address

	AvailableLiquidity uint64
	BorrowedAmount     uint64

	TotalFeesCollected     uint64
	TotalExecutions        uint64
	TotalProfitDistributed uint64
}

// ExecutionSummary aggregates the execution history of one strategy.
type ExecutionSummary struct {
	StrategyCreator Address
	StrategyID      uint64

	Executions        uint64
	TotalBorrowed     uint64
	TotalFees         uint64
	TotalNetProfit    uint64
	MaxNetProfit      uint64
	DistinctExecutors uint64
	LastExecutedAt    int64
}

// ExecutionRecord is one completed arbitrage cycle, appended to the
// execution history for off-chain analytics.
type ExecutionRecord struct {
	StrategyCreator Address
	StrategyID      uint64
	Executor        Address

	BorrowedAmount uint64
	FlashLoanFee   uint64
	GrossProfit    uint64
	NetProfit      uint64

	CreatorShare  uint64
	ExecutorShare uint64
	TreasuryShare uint64

	Timestamp int64
}
