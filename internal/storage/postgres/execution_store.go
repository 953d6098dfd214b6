package postgres

import (
	"context"
	"fmt"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// ExecutionStore implements storage.ExecutionStore using PostgreSQL.
// Rows are append-only; a BIGSERIAL id preserves insertion order.
type ExecutionStore struct {
	pool *Pool
}

// NewExecutionStore creates a new ExecutionStore.
func NewExecutionStore(pool *Pool) *ExecutionStore {
	return &ExecutionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ExecutionStore = (*ExecutionStore)(nil)

// Append records one completed execution cycle.
func (s *ExecutionStore) Append(ctx context.Context, r *domain.ExecutionRecord) error {
	query := `
		INSERT INTO executions (
			strategy_creator, strategy_id, executor,
			borrowed_amount, flash_loan_fee, gross_profit, net_profit,
			creator_share, executor_share, treasury_share, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		string(r.StrategyCreator),
		int64(r.StrategyID),
		string(r.Executor),
		int64(r.BorrowedAmount),
		int64(r.FlashLoanFee),
		int64(r.GrossProfit),
		int64(r.NetProfit),
		int64(r.CreatorShare),
		int64(r.ExecutorShare),
		int64(r.TreasuryShare),
		r.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append execution: %w", err)
	}
	return nil
}

// ListByStrategy returns executions for one strategy in insertion order.
func (s *ExecutionStore) ListByStrategy(ctx context.Context, creator domain.Address, strategyID uint64) ([]*domain.ExecutionRecord, error) {
	query := `
		SELECT strategy_creator, strategy_id, executor,
		       borrowed_amount, flash_loan_fee, gross_profit, net_profit,
		       creator_share, executor_share, treasury_share, executed_at
		FROM executions
		WHERE strategy_creator = $1 AND strategy_id = $2
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(creator), int64(strategyID))
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var records []*domain.ExecutionRecord
	for rows.Next() {
		var (
			r             domain.ExecutionRecord
			strategyOwner string
			sid           int64
			executor      string
			borrowed      int64
			fee           int64
			gross         int64
			net           int64
			creatorShare  int64
			executorShare int64
			treasuryShare int64
		)
		err := rows.Scan(
			&strategyOwner, &sid, &executor,
			&borrowed, &fee, &gross, &net,
			&creatorShare, &executorShare, &treasuryShare, &r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan execution row: %w", err)
		}
		r.StrategyCreator = domain.Address(strategyOwner)
		r.StrategyID = uint64(sid)
		r.Executor = domain.Address(executor)
		r.BorrowedAmount = uint64(borrowed)
		r.FlashLoanFee = uint64(fee)
		r.GrossProfit = uint64(gross)
		r.NetProfit = uint64(net)
		r.CreatorShare = uint64(creatorShare)
		r.ExecutorShare = uint64(executorShare)
		r.TreasuryShare = uint64(treasuryShare)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate execution rows: %w", err)
	}
	return records, nil
}
