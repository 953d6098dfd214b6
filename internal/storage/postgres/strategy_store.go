package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/storage"
)

// StrategyStore implements storage.StrategyStore using PostgreSQL.
type StrategyStore struct {
	pool *Pool
}

// NewStrategyStore creates a new StrategyStore.
func NewStrategyStore(pool *Pool) *StrategyStore {
	return &StrategyStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StrategyStore = (*StrategyStore)(nil)

// Insert adds a new strategy. Returns ErrDuplicateKey if the
// (creator, strategy_id) key exists.
func (s *StrategyStore) Insert(ctx context.Context, strategy *domain.StrategyAccount) error {
	pairs, err := json.Marshal(strategy.TokenPairs)
	if err != nil {
		return fmt.Errorf("encode token pairs: %w", err)
	}

	query := `
		INSERT INTO strategies (
			creator, strategy_id, venues, token_pairs,
			profit_threshold_bps, max_slippage_bps, status,
			total_profit, execution_count, success_count, last_execution
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.pool.Exec(ctx, query,
		string(strategy.Creator),
		int64(strategy.StrategyID),
		strategy.Venues,
		pairs,
		int32(strategy.ProfitThresholdBps),
		int32(strategy.MaxSlippageBps),
		string(strategy.Status),
		int64(strategy.TotalProfit),
		int64(strategy.ExecutionCount),
		int64(strategy.SuccessCount),
		strategy.LastExecution,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert strategy: %w", err)
	}
	return nil
}

// Get retrieves a strategy. Returns ErrNotFound if absent.
func (s *StrategyStore) Get(ctx context.Context, creator domain.Address, strategyID uint64) (*domain.StrategyAccount, error) {
	query := `
		SELECT creator, strategy_id, venues, token_pairs,
		       profit_threshold_bps, max_slippage_bps, status,
		       total_profit, execution_count, success_count, last_execution
		FROM strategies
		WHERE creator = $1 AND strategy_id = $2
	`

	row := s.pool.QueryRow(ctx, query, string(creator), int64(strategyID))
	strategy, err := scanStrategy(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get strategy: %w", err)
	}
	return strategy, nil
}

// Update overwrites an existing strategy. Returns ErrNotFound if absent.
func (s *StrategyStore) Update(ctx context.Context, strategy *domain.StrategyAccount) error {
	pairs, err := json.Marshal(strategy.TokenPairs)
	if err != nil {
		return fmt.Errorf("encode token pairs: %w", err)
	}

	query := `
		UPDATE strategies SET
			venues = $3, token_pairs = $4,
			profit_threshold_bps = $5, max_slippage_bps = $6, status = $7,
			total_profit = $8, execution_count = $9, success_count = $10, last_execution = $11
		WHERE creator = $1 AND strategy_id = $2
	`

	tag, err := s.pool.Exec(ctx, query,
		string(strategy.Creator),
		int64(strategy.StrategyID),
		strategy.Venues,
		pairs,
		int32(strategy.ProfitThresholdBps),
		int32(strategy.MaxSlippageBps),
		string(strategy.Status),
		int64(strategy.TotalProfit),
		int64(strategy.ExecutionCount),
		int64(strategy.SuccessCount),
		strategy.LastExecution,
	)
	if err != nil {
		return fmt.Errorf("update strategy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListByCreator returns all strategies for a creator, ordered by id.
func (s *StrategyStore) ListByCreator(ctx context.Context, creator domain.Address) ([]*domain.StrategyAccount, error) {
	query := `
		SELECT creator, strategy_id, venues, token_pairs,
		       profit_threshold_bps, max_slippage_bps, status,
		       total_profit, execution_count, success_count, last_execution
		FROM strategies
		WHERE creator = $1
		ORDER BY strategy_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(creator))
	if err != nil {
		return nil, fmt.Errorf("list strategies by creator: %w", err)
	}
	defer rows.Close()

	var strategies []*domain.StrategyAccount
	for rows.Next() {
		strategy, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan strategy row: %w", err)
		}
		strategies = append(strategies, strategy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategy rows: %w", err)
	}
	return strategies, nil
}

// scanStrategy scans a single row into a StrategyAccount.
func scanStrategy(row pgx.Row) (*domain.StrategyAccount, error) {
	var (
		strategy      domain.StrategyAccount
		creator       string
		strategyID    int64
		pairsJSON     []byte
		thresholdBps  int32
		slippageBps   int32
		status        string
		totalProfit   int64
		execCount     int64
		successCount  int64
		lastExecution int64
	)

	err := row.Scan(
		&creator,
		&strategyID,
		&strategy.Venues,
		&pairsJSON,
		&thresholdBps,
		&slippageBps,
		&status,
		&totalProfit,
		&execCount,
		&successCount,
		&lastExecution,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(pairsJSON, &strategy.TokenPairs); err != nil {
		return nil, fmt.Errorf("decode token pairs: %w", err)
	}

	strategy.Creator = domain.Address(creator)
	strategy.StrategyID = uint64(strategyID)
	strategy.ProfitThresholdBps = uint16(thresholdBps)
	strategy.MaxSlippageBps = uint16(slippageBps)
	strategy.Status = domain.StrategyStatus(status)
	strategy.TotalProfit = uint64(totalProfit)
	strategy.ExecutionCount = uint64(execCount)
	strategy.SuccessCount = uint64(successCount)
	strategy.LastExecution = lastExecution
	return &strategy, nil
}
