// Package engine implements the arbitrage execution engine: the atomic
// borrow-swap-repay-distribute cycle orchestrated across the flash loan
// pool, the strategy registry, and the governance treasury.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/exchange"
	"solana-arb-dao/internal/flashloan"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/pda"
	"solana-arb-dao/internal/registry"
	"solana-arb-dao/internal/storage"
)

// TreasuryDepositor receives the treasury share of distributed profit.
// Satisfied by the governance program.
type TreasuryDepositor interface {
	DepositTreasury(ctx context.Context, depositor domain.Address, amount uint64) error
}

// Engine runs full arbitrage cycles. A cycle either completes every step
// or leaves no trace: balances, pool state, vault state and strategy
// metrics are restored on any failure, mirroring transaction semantics
// of the host ledger.
type Engine struct {
	ledger   *ledger.Ledger
	pool     *flashloan.Program
	registry *registry.Program
	exchange exchange.Exchange
	treasury TreasuryDepositor

	vaults     storage.VaultStore
	pools      storage.PoolStore
	strategies storage.StrategyStore
	history    storage.ExecutionStore
	governance storage.GovernanceStore

	bus    *events.Bus
	clock  domain.Clock
	logger *log.Logger
	mint   domain.Address

	// mu serializes cycles: a second concurrent cycle would trip the
	// pool's reentrancy flag anyway, this keeps the failure mode clean.
	mu sync.Mutex
}

// Options configures an execution Engine.
type Options struct {
	Ledger   *ledger.Ledger
	Pool     *flashloan.Program
	Registry *registry.Program
	Exchange exchange.Exchange
	Treasury TreasuryDepositor

	Vaults     storage.VaultStore
	Pools      storage.PoolStore
	Strategies storage.StrategyStore
	History    storage.ExecutionStore

	// Governance gives the rollback access to the treasury record; set
	// it whenever Treasury routes deposits through the governance program.
	Governance storage.GovernanceStore

	Bus    *events.Bus
	Clock  domain.Clock
	Logger *log.Logger
	Mint   domain.Address
}

// New creates an execution engine.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Mint == "" {
		opts.Mint = domain.WSOLMint
	}
	return &Engine{
		ledger:     opts.Ledger,
		pool:       opts.Pool,
		registry:   opts.Registry,
		exchange:   opts.Exchange,
		treasury:   opts.Treasury,
		vaults:     opts.Vaults,
		pools:      opts.Pools,
		strategies: opts.Strategies,
		history:    opts.History,
		governance: opts.Governance,
		bus:        opts.Bus,
		clock:      opts.Clock,
		logger:     opts.Logger,
		mint:       opts.Mint,
	}
}

// VaultAccount is the ledger account holding the engine's working capital.
func (e *Engine) VaultAccount() domain.Address {
	return pda.ExecutionVaultAddress()
}

// InitializeVault creates the execution vault singleton.
func (e *Engine) InitializeVault(ctx context.Context, authority domain.Address) error {
	vault := &domain.ExecutionVault{Authority: authority}
	if err := e.vaults.InitVault(ctx, vault); err != nil {
		return fmt.Errorf("initialize vault: %w", err)
	}
	e.logger.Printf("execution vault initialized, authority %s", authority)
	return nil
}

// InitializeProfitConfig sets the immutable profit split. Shares must sum
// to exactly 10000 bps.
func (e *Engine) InitializeProfitConfig(ctx context.Context, treasury domain.Address, creatorBps, executorBps, treasuryBps uint64) error {
	cfg := &domain.ProfitConfig{
		Treasury:         treasury,
		CreatorShareBps:  creatorBps,
		ExecutorShareBps: executorBps,
		TreasuryShareBps: treasuryBps,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := e.vaults.InitProfitConfig(ctx, cfg); err != nil {
		return fmt.Errorf("initialize profit config: %w", err)
	}
	return nil
}

// DepositVaultLiquidity funds the vault's working capital from the
// depositor's balance.
func (e *Engine) DepositVaultLiquidity(ctx context.Context, depositor domain.Address, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	vault, err := e.vaults.GetVault(ctx)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	if err := e.ledger.Transfer(e.mint, depositor, e.VaultAccount(), amount); err != nil {
		return fmt.Errorf("vault deposit transfer: %w", err)
	}

	vault.AvailableLiquidity += amount
	if err := e.vaults.UpdateVault(ctx, vault); err != nil {
		return fmt.Errorf("update vault: %w", err)
	}

	e.logger.Printf("vault funded with %d, available liquidity %d", amount, vault.AvailableLiquidity)
	return nil
}

// Request identifies one execution attempt: which strategy to run, who
// triggered it, how much to borrow, and the profit floor below which the
// cycle is abandoned.
type Request struct {
	Creator    domain.Address
	StrategyID uint64
	Executor   domain.Address

	BorrowAmount uint64
	MinProfit    uint64
}

// Result is the accounting of one completed cycle.
type Result struct {
	BorrowAmount uint64
	FlashLoanFee uint64
	GrossProfit  uint64
	NetProfit    uint64

	CreatorShare  uint64
	ExecutorShare uint64
	TreasuryShare uint64
}

// ExecuteStrategy runs one full arbitrage cycle:
//
//	validate -> borrow -> swap -> check profit -> repay -> distribute -> record
//
// Any failure restores every balance and record touched so far and
// returns the cause. On success the net profit has been paid out, the
// flash loan settled, metrics updated and a history row appended.
func (e *Engine) ExecuteStrategy(ctx context.Context, req Request) (res Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	strategy, err := e.strategies.Get(ctx, req.Creator, req.StrategyID)
	if err != nil {
		return Result{}, fmt.Errorf("load strategy: %w", err)
	}
	if !strategy.IsExecutable() {
		return Result{}, ErrStrategyNotApproved
	}

	vault, err := e.vaults.GetVault(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load vault: %w", err)
	}
	if vault.AvailableLiquidity < req.BorrowAmount {
		return Result{}, ErrInsufficientVaultLiquidity
	}

	cfg, err := e.vaults.GetProfitConfig(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load profit config: %w", err)
	}

	poolBefore, err := e.pools.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load pool: %w", err)
	}

	// The treasury accumulator is mutated by depositTreasury, so it is
	// part of the rollback set too.
	var treasuryBefore *domain.Treasury
	if e.governance != nil {
		tr, trErr := e.governance.GetTreasury(ctx)
		if trErr != nil && !errors.Is(trErr, storage.ErrNotFound) {
			return Result{}, fmt.Errorf("load treasury: %w", trErr)
		}
		treasuryBefore = tr
	}

	// Everything from here on mutates shared state. Snapshot the world
	// and restore it wholesale if any later step fails.
	balances := e.ledger.Snapshot()
	vaultBefore := *vault
	strategyBefore := *strategy
	defer func() {
		if err != nil {
			e.ledger.Restore(balances)
			e.restoreRecords(ctx, poolBefore, &vaultBefore, &strategyBefore, treasuryBefore)
		}
	}()

	vaultAccount := e.VaultAccount()

	if err = e.pool.FlashBorrow(ctx, vaultAccount, req.BorrowAmount); err != nil {
		return Result{}, err
	}
	vault.AvailableLiquidity -= req.BorrowAmount
	vault.BorrowedAmount = req.BorrowAmount
	if err = e.vaults.UpdateVault(ctx, vault); err != nil {
		return Result{}, fmt.Errorf("update vault: %w", err)
	}

	output, err := e.exchange.Swap(ctx, req.BorrowAmount, strategy.Venues, strategy.TokenPairs)
	if err != nil {
		return Result{}, fmt.Errorf("swap: %w", err)
	}
	if output <= req.BorrowAmount {
		return Result{}, ErrNegativeProfit
	}
	gross := output - req.BorrowAmount

	fee := poolBefore.Fee(req.BorrowAmount)
	if gross < fee {
		// The fee eats the whole gross: net lands below any profit floor.
		return Result{}, ErrSlippageExceeded
	}
	net := gross - fee
	if net < req.MinProfit {
		return Result{}, ErrSlippageExceeded
	}

	// Settle the external swap: the venue's side of the trade is
	// off-ledger, so its payout materializes as a credit to the vault.
	if err = e.ledger.MintTo(e.mint, vaultAccount, gross); err != nil {
		return Result{}, fmt.Errorf("swap settlement: %w", err)
	}

	if err = e.pool.FlashRepay(ctx, vaultAccount, req.BorrowAmount+fee); err != nil {
		return Result{}, err
	}

	creatorShare, executorShare, treasuryShare := cfg.Distribution(net)
	if err = e.ledger.Transfer(e.mint, vaultAccount, req.Creator, creatorShare); err != nil {
		return Result{}, fmt.Errorf("pay creator: %w", err)
	}
	if err = e.ledger.Transfer(e.mint, vaultAccount, req.Executor, executorShare); err != nil {
		return Result{}, fmt.Errorf("pay executor: %w", err)
	}
	if err = e.depositTreasury(ctx, vaultAccount, cfg.Treasury, treasuryShare); err != nil {
		return Result{}, fmt.Errorf("pay treasury: %w", err)
	}

	vault.AvailableLiquidity += req.BorrowAmount
	vault.BorrowedAmount = 0
	vault.TotalExecutions++
	vault.TotalProfitDistributed += net
	vault.TotalFeesCollected += fee
	if err = e.vaults.UpdateVault(ctx, vault); err != nil {
		return Result{}, fmt.Errorf("update vault: %w", err)
	}

	if err = e.registry.UpdateMetrics(ctx, req.Executor, req.Creator, req.StrategyID, net, true); err != nil {
		return Result{}, err
	}

	now := e.clock()
	record := &domain.ExecutionRecord{
		StrategyCreator: req.Creator,
		StrategyID:      req.StrategyID,
		Executor:        req.Executor,
		BorrowedAmount:  req.BorrowAmount,
		FlashLoanFee:    fee,
		GrossProfit:     gross,
		NetProfit:       net,
		CreatorShare:    creatorShare,
		ExecutorShare:   executorShare,
		TreasuryShare:   treasuryShare,
		Timestamp:       now,
	}
	if err = e.history.Append(ctx, record); err != nil {
		return Result{}, fmt.Errorf("append execution record: %w", err)
	}

	if e.bus != nil {
		e.bus.Publish(domain.Event{
			Type:       domain.EventStrategyExecuted,
			Timestamp:  now,
			Creator:    req.Creator,
			StrategyID: req.StrategyID,
			Actor:      req.Executor,
			Amount:     req.BorrowAmount,
			Fee:        fee,
			Profit:     net,
		})
	}

	e.logger.Printf("strategy %d executed: borrowed=%d fee=%d net=%d split=%d/%d/%d",
		req.StrategyID, req.BorrowAmount, fee, net, creatorShare, executorShare, treasuryShare)

	return Result{
		BorrowAmount:  req.BorrowAmount,
		FlashLoanFee:  fee,
		GrossProfit:   gross,
		NetProfit:     net,
		CreatorShare:  creatorShare,
		ExecutorShare: executorShare,
		TreasuryShare: treasuryShare,
	}, nil
}

// depositTreasury routes the treasury share through the governance
// program so its accumulator stays accurate, falling back to a plain
// transfer when no governance program is wired.
func (e *Engine) depositTreasury(ctx context.Context, from, treasury domain.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if e.treasury != nil {
		return e.treasury.DepositTreasury(ctx, from, amount)
	}
	return e.ledger.Transfer(e.mint, from, treasury, amount)
}

// restoreRecords puts the pool, vault, strategy and treasury records back
// to their pre-cycle values after a failed cycle. Restore failures are
// logged, not returned: the original cause stays the error the caller sees.
func (e *Engine) restoreRecords(ctx context.Context, pool *domain.FlashLoanPool, vault *domain.ExecutionVault, strategy *domain.StrategyAccount, treasury *domain.Treasury) {
	poolCopy := *pool
	if err := e.pools.Update(ctx, &poolCopy); err != nil {
		e.logger.Printf("rollback: restore pool failed: %v", err)
	}
	vaultCopy := *vault
	if err := e.vaults.UpdateVault(ctx, &vaultCopy); err != nil {
		e.logger.Printf("rollback: restore vault failed: %v", err)
	}
	strategyCopy := *strategy
	if err := e.strategies.Update(ctx, &strategyCopy); err != nil {
		e.logger.Printf("rollback: restore strategy failed: %v", err)
	}
	if treasury != nil {
		treasuryCopy := *treasury
		if err := e.governance.UpdateTreasury(ctx, &treasuryCopy); err != nil {
			e.logger.Printf("rollback: restore treasury failed: %v", err)
		}
	}
}

// Vault returns a copy of the current vault state.
func (e *Engine) Vault(ctx context.Context) (*domain.ExecutionVault, error) {
	return e.vaults.GetVault(ctx)
}

// History returns the execution history for one strategy.
func (e *Engine) History(ctx context.Context, creator domain.Address, strategyID uint64) ([]*domain.ExecutionRecord, error) {
	return e.history.ListByStrategy(ctx, creator, strategyID)
}
