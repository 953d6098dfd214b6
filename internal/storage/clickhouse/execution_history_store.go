package clickhouse

import (
	"context"
	"fmt"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// ExecutionHistoryStore implements storage.ExecutionStore using
// ClickHouse. The history is append-only by nature, which fits the
// MergeTree model directly; on top of it the store exposes the
// aggregation queries the analytics surface serves.
type ExecutionHistoryStore struct {
	conn *Conn
}

// NewExecutionHistoryStore creates a new ExecutionHistoryStore.
func NewExecutionHistoryStore(conn *Conn) *ExecutionHistoryStore {
	return &ExecutionHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ExecutionStore = (*ExecutionHistoryStore)(nil)

// Append records one completed execution cycle.
func (s *ExecutionHistoryStore) Append(ctx context.Context, r *domain.ExecutionRecord) error {
	query := `
		INSERT INTO executions (
			strategy_creator, strategy_id, executor,
			borrowed_amount, flash_loan_fee, gross_profit, net_profit,
			creator_share, executor_share, treasury_share, executed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		string(r.StrategyCreator),
		r.StrategyID,
		string(r.Executor),
		r.BorrowedAmount,
		r.FlashLoanFee,
		r.GrossProfit,
		r.NetProfit,
		r.CreatorShare,
		r.ExecutorShare,
		r.TreasuryShare,
		r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append execution: %w", err)
	}
	return nil
}

// ListByStrategy returns executions for one strategy ordered by time.
func (s *ExecutionHistoryStore) ListByStrategy(ctx context.Context, creator domain.Address, strategyID uint64) ([]*domain.ExecutionRecord, error) {
	query := `
		SELECT strategy_creator, strategy_id, executor,
		       borrowed_amount, flash_loan_fee, gross_profit, net_profit,
		       creator_share, executor_share, treasury_share, executed_at
		FROM executions
		WHERE strategy_creator = ? AND strategy_id = ?
		ORDER BY executed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, string(creator), strategyID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var records []*domain.ExecutionRecord
	for rows.Next() {
		var (
			r             domain.ExecutionRecord
			strategyOwner string
			executor      string
		)
		err := rows.Scan(
			&strategyOwner, &r.StrategyID, &executor,
			&r.BorrowedAmount, &r.FlashLoanFee, &r.GrossProfit, &r.NetProfit,
			&r.CreatorShare, &r.ExecutorShare, &r.TreasuryShare, &r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan execution row: %w", err)
		}
		r.StrategyCreator = domain.Address(strategyOwner)
		r.Executor = domain.Address(executor)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate execution rows: %w", err)
	}
	return records, nil
}

// Summarize aggregates the full history of one strategy. Returns
// ErrNotFound when the strategy has no executions.
func (s *ExecutionHistoryStore) Summarize(ctx context.Context, creator domain.Address, strategyID uint64) (*domain.ExecutionSummary, error) {
	query := `
		SELECT
			count(*),
			sum(borrowed_amount),
			sum(flash_loan_fee),
			sum(net_profit),
			max(net_profit),
			uniqExact(executor),
			max(executed_at)
		FROM executions
		WHERE strategy_creator = ? AND strategy_id = ?
	`

	var summary domain.ExecutionSummary
	err := s.conn.QueryRow(ctx, query, string(creator), strategyID).Scan(
		&summary.Executions,
		&summary.TotalBorrowed,
		&summary.TotalFees,
		&summary.TotalNetProfit,
		&summary.MaxNetProfit,
		&summary.DistinctExecutors,
		&summary.LastExecutedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize executions: %w", err)
	}
	if summary.Executions == 0 {
		return nil, storage.ErrNotFound
	}

	summary.StrategyCreator = creator
	summary.StrategyID = strategyID
	return &summary, nil
}

// TopStrategies returns the most profitable strategies by accumulated
// net profit, at most limit entries.
func (s *ExecutionHistoryStore) TopStrategies(ctx context.Context, limit uint64) ([]*domain.ExecutionSummary, error) {
	query := `
		SELECT
			strategy_creator,
			strategy_id,
			count(*),
			sum(borrowed_amount),
			sum(flash_loan_fee),
			sum(net_profit),
			max(net_profit),
			uniqExact(executor),
			max(executed_at)
		FROM executions
		GROUP BY strategy_creator, strategy_id
		ORDER BY sum(net_profit) DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top strategies: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ExecutionSummary
	for rows.Next() {
		var (
			summary domain.ExecutionSummary
			creator string
		)
		err := rows.Scan(
			&creator,
			&summary.StrategyID,
			&summary.Executions,
			&summary.TotalBorrowed,
			&summary.TotalFees,
			&summary.TotalNetProfit,
			&summary.MaxNetProfit,
			&summary.DistinctExecutors,
			&summary.LastExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary.StrategyCreator = domain.Address(creator)
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}
	return summaries, nil
}
