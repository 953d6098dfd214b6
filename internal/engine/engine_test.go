package engine

import (
	"context"
	"errors"
	"testing"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/exchange"
	"solana-arb-dao/internal/flashloan"
	"solana-arb-dao/internal/governance"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/pda"
	"solana-arb-dao/internal/registry"
	"solana-arb-dao/internal/storage/memory"
)

const (
	admin    = domain.Address("admin")
	creator  = domain.Address("strategy-creator")
	executor = domain.Address("arb-bot")
	funder   = domain.Address("funder")

	sol = uint64(1_000_000_000)
)

// harness wires the full execution stack around in-memory stores: flash
// loan pool, registry, governance treasury and the engine itself.
type harness struct {
	ledger *ledger.Ledger
	pool   *flashloan.Program
	reg    *registry.Program
	gov    *governance.Program
	engine *Engine

	// opts holds the engine wiring so tests can rebuild the engine with
	// one collaborator swapped out.
	opts Options
}

func newHarness(t *testing.T, ex exchange.Exchange) *harness {
	t.Helper()
	ctx := context.Background()
	led := ledger.New()
	clock := func() int64 { return 1_700_000_000 }

	poolStore := memory.NewPoolStore()
	pool := flashloan.New(flashloan.Options{Ledger: led, Store: poolStore, Clock: clock})

	stratStore := memory.NewStrategyStore()
	reg := registry.New(registry.Options{Store: stratStore, Clock: clock})
	if err := reg.InitializeAdmin(admin); err != nil {
		t.Fatalf("InitializeAdmin failed: %v", err)
	}

	govStore := memory.NewGovernanceStore()
	gov := governance.New(governance.Options{
		Ledger:    led,
		Store:     govStore,
		Proposals: memory.NewProposalStore(),
		Votes:     memory.NewVoteRecordStore(),
		Approver:  reg,
		Clock:     clock,
	})
	if err := gov.Initialize(ctx, governance.InitParams{}); err != nil {
		t.Fatalf("governance Initialize failed: %v", err)
	}

	opts := Options{
		Ledger:     led,
		Pool:       pool,
		Registry:   reg,
		Exchange:   ex,
		Treasury:   gov,
		Vaults:     memory.NewVaultStore(),
		Pools:      poolStore,
		Strategies: stratStore,
		History:    memory.NewExecutionStore(),
		Governance: govStore,
		Clock:      clock,
	}
	eng := New(opts)

	// Fund the pool with 1000 SOL and the vault with 500 SOL.
	if err := pool.InitializePool(ctx, admin, domain.DefaultFeeBps); err != nil {
		t.Fatalf("InitializePool failed: %v", err)
	}
	led.MintTo(domain.WSOLMint, funder, 1_500*sol)
	if err := pool.DepositLiquidity(ctx, funder, 1_000*sol); err != nil {
		t.Fatalf("DepositLiquidity failed: %v", err)
	}
	if err := eng.InitializeVault(ctx, admin); err != nil {
		t.Fatalf("InitializeVault failed: %v", err)
	}
	if err := eng.InitializeProfitConfig(ctx, pda.TreasuryAddress(),
		domain.CreatorShareBps, domain.ExecutorShareBps, domain.TreasuryShareBps); err != nil {
		t.Fatalf("InitializeProfitConfig failed: %v", err)
	}
	if err := eng.DepositVaultLiquidity(ctx, funder, 500*sol); err != nil {
		t.Fatalf("DepositVaultLiquidity failed: %v", err)
	}

	return &harness{ledger: led, pool: pool, reg: reg, gov: gov, engine: eng, opts: opts}
}

func (h *harness) approvedStrategy(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	err := h.reg.CreateStrategy(ctx, creator, 1,
		[]string{"DEX_A", "DEX_B"},
		[]domain.TokenPair{{TokenA: "SOL", TokenB: "USDC"}, {TokenA: "USDC", TokenB: "SOL"}},
		50, 100)
	if err != nil {
		t.Fatalf("CreateStrategy failed: %v", err)
	}
	if err := h.reg.ApproveStrategy(ctx, admin, creator, 1); err != nil {
		t.Fatalf("ApproveStrategy failed: %v", err)
	}
}

func TestExecuteStrategy_FullCycle(t *testing.T) {
	// Fixed 8% swap: borrowing 10 SOL yields a gross of 0.8 SOL. The
	// flash loan fee on 10 SOL at 9 bps is 0.009 SOL, so net profit is
	// 0.791 SOL, split 40/40/20.
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	h.approvedStrategy(t)
	ctx := context.Background()

	res, err := h.engine.ExecuteStrategy(ctx, Request{
		Creator:      creator,
		StrategyID:   1,
		Executor:     executor,
		BorrowAmount: 10 * sol,
	})
	if err != nil {
		t.Fatalf("ExecuteStrategy failed: %v", err)
	}

	if res.FlashLoanFee != 9_000_000 {
		t.Errorf("FlashLoanFee = %d, want 9000000", res.FlashLoanFee)
	}
	if res.GrossProfit != 800_000_000 {
		t.Errorf("GrossProfit = %d, want 800000000", res.GrossProfit)
	}
	if res.NetProfit != 791_000_000 {
		t.Errorf("NetProfit = %d, want 791000000", res.NetProfit)
	}
	if res.CreatorShare != 316_400_000 || res.ExecutorShare != 316_400_000 || res.TreasuryShare != 158_200_000 {
		t.Errorf("shares = %d/%d/%d, want 316400000/316400000/158200000",
			res.CreatorShare, res.ExecutorShare, res.TreasuryShare)
	}

	// Profit landed with each party.
	if got := h.ledger.Balance(domain.WSOLMint, creator); got != res.CreatorShare {
		t.Errorf("creator balance = %d, want %d", got, res.CreatorShare)
	}
	if got := h.ledger.Balance(domain.WSOLMint, executor); got != res.ExecutorShare {
		t.Errorf("executor balance = %d, want %d", got, res.ExecutorShare)
	}
	if got := h.ledger.Balance(domain.WSOLMint, pda.TreasuryAddress()); got != res.TreasuryShare {
		t.Errorf("treasury balance = %d, want %d", got, res.TreasuryShare)
	}
	treasury, _ := h.gov.Treasury(ctx)
	if treasury.TotalReceived != res.TreasuryShare {
		t.Errorf("treasury TotalReceived = %d, want %d", treasury.TotalReceived, res.TreasuryShare)
	}

	// Vault working capital is back to its starting level.
	if got := h.ledger.Balance(domain.WSOLMint, h.engine.VaultAccount()); got != 500*sol {
		t.Errorf("vault account balance = %d, want %d", got, 500*sol)
	}
	vault, _ := h.engine.Vault(ctx)
	if vault.AvailableLiquidity != 500*sol || vault.BorrowedAmount != 0 {
		t.Errorf("vault liquidity=%d borrowed=%d after cycle", vault.AvailableLiquidity, vault.BorrowedAmount)
	}
	if vault.TotalExecutions != 1 || vault.TotalProfitDistributed != res.NetProfit || vault.TotalFeesCollected != res.FlashLoanFee {
		t.Errorf("vault counters = %d/%d/%d", vault.TotalExecutions, vault.TotalProfitDistributed, vault.TotalFeesCollected)
	}

	// Pool settled and earned its fee.
	pool, _ := h.pool.Pool(ctx)
	if pool.FlashLoanActive {
		t.Error("flash loan still active after cycle")
	}
	if pool.TotalLoans != 1 || pool.TotalFeesCollected != res.FlashLoanFee {
		t.Errorf("pool counters = loans %d fees %d", pool.TotalLoans, pool.TotalFeesCollected)
	}
	if got := h.ledger.Balance(domain.WSOLMint, pool.TokenAccount); got != 1_000*sol+res.FlashLoanFee {
		t.Errorf("pool balance = %d, want %d", got, 1_000*sol+res.FlashLoanFee)
	}

	// Strategy metrics and history.
	stats, _ := h.reg.GetStrategyStats(ctx, creator, 1)
	if stats.ExecutionCount != 1 || stats.SuccessCount != 1 || stats.TotalProfit != res.NetProfit {
		t.Errorf("stats = count %d success %d profit %d", stats.ExecutionCount, stats.SuccessCount, stats.TotalProfit)
	}
	history, _ := h.engine.History(ctx, creator, 1)
	if len(history) != 1 {
		t.Fatalf("history has %d records, want 1", len(history))
	}
	if history[0].NetProfit != res.NetProfit || history[0].Executor != executor {
		t.Errorf("history record = %+v", history[0])
	}
}

func TestExecuteStrategy_MinProfitRollback(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	h.approvedStrategy(t)
	ctx := context.Background()

	// Net profit would be 0.791 SOL; demanding 5 SOL aborts the cycle.
	_, err := h.engine.ExecuteStrategy(ctx, Request{
		Creator:      creator,
		StrategyID:   1,
		Executor:     executor,
		BorrowAmount: 10 * sol,
		MinProfit:    5 * sol,
	})
	if !errors.Is(err, ErrSlippageExceeded) {
		t.Fatalf("expected ErrSlippageExceeded, got %v", err)
	}

	// Complete rollback: no balances moved, no loan outstanding, no
	// counters advanced.
	if got := h.ledger.Balance(domain.WSOLMint, creator); got != 0 {
		t.Errorf("creator balance = %d after aborted cycle", got)
	}
	if got := h.ledger.Balance(domain.WSOLMint, h.engine.VaultAccount()); got != 500*sol {
		t.Errorf("vault account balance = %d, want %d", got, 500*sol)
	}
	pool, _ := h.pool.Pool(ctx)
	if pool.FlashLoanActive {
		t.Error("flash loan left active after rollback")
	}
	if pool.TotalLoans != 0 {
		t.Errorf("pool TotalLoans = %d after rollback", pool.TotalLoans)
	}
	vault, _ := h.engine.Vault(ctx)
	if vault.AvailableLiquidity != 500*sol || vault.BorrowedAmount != 0 || vault.TotalExecutions != 0 {
		t.Errorf("vault not restored: %+v", vault)
	}
	stats, _ := h.reg.GetStrategyStats(ctx, creator, 1)
	if stats.ExecutionCount != 0 {
		t.Errorf("strategy metrics advanced on aborted cycle: count=%d", stats.ExecutionCount)
	}

	// The pool is usable again.
	if _, err := h.engine.ExecuteStrategy(ctx, Request{
		Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 10 * sol,
	}); err != nil {
		t.Errorf("cycle after rollback failed: %v", err)
	}
}

// failingHistory rejects every append, forcing a failure on the last
// step of the cycle, after profit has been distributed.
type failingHistory struct{}

func (failingHistory) Append(context.Context, *domain.ExecutionRecord) error {
	return errors.New("history unavailable")
}

func (failingHistory) ListByStrategy(context.Context, domain.Address, uint64) ([]*domain.ExecutionRecord, error) {
	return nil, nil
}

func TestExecuteStrategy_HistoryFailureRestoresTreasury(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	h.approvedStrategy(t)
	ctx := context.Background()

	// Same wiring, but history appends fail. The cycle gets all the way
	// through distribution before the rollback fires.
	opts := h.opts
	opts.History = failingHistory{}
	eng := New(opts)

	_, err := eng.ExecuteStrategy(ctx, Request{
		Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 10 * sol,
	})
	if err == nil {
		t.Fatal("expected history append failure")
	}

	// The treasury accumulator must not claim funds the ledger gave back.
	treasury, terr := h.gov.Treasury(ctx)
	if terr != nil {
		t.Fatalf("Treasury failed: %v", terr)
	}
	if treasury.TotalReceived != 0 {
		t.Errorf("treasury TotalReceived = %d after rollback, want 0", treasury.TotalReceived)
	}
	if got := h.ledger.Balance(domain.WSOLMint, pda.TreasuryAddress()); got != 0 {
		t.Errorf("treasury balance = %d after rollback, want 0", got)
	}

	// And the rest of the world rolled back with it.
	if got := h.ledger.Balance(domain.WSOLMint, creator); got != 0 {
		t.Errorf("creator balance = %d after rollback", got)
	}
	if got := h.ledger.Balance(domain.WSOLMint, executor); got != 0 {
		t.Errorf("executor balance = %d after rollback", got)
	}
	if got := h.ledger.Balance(domain.WSOLMint, eng.VaultAccount()); got != 500*sol {
		t.Errorf("vault account balance = %d, want %d", got, 500*sol)
	}
	vault, _ := eng.Vault(ctx)
	if vault.AvailableLiquidity != 500*sol || vault.BorrowedAmount != 0 || vault.TotalExecutions != 0 {
		t.Errorf("vault not restored: %+v", vault)
	}
	pool, _ := h.pool.Pool(ctx)
	if pool.FlashLoanActive || pool.TotalLoans != 0 {
		t.Errorf("pool not restored: active=%v loans=%d", pool.FlashLoanActive, pool.TotalLoans)
	}
	stats, _ := h.reg.GetStrategyStats(ctx, creator, 1)
	if stats.ExecutionCount != 0 {
		t.Errorf("strategy metrics advanced on failed cycle: count=%d", stats.ExecutionCount)
	}
}

func TestExecuteStrategy_UnprofitableSwap(t *testing.T) {
	tests := []struct {
		name    string
		ex      exchange.Exchange
		wantErr error
	}{
		{"swap loses money", exchange.FixedRateExchange{Numerator: 99, Denominator: 100}, ErrNegativeProfit},
		{"swap breaks even", exchange.FixedRateExchange{Numerator: 1, Denominator: 1}, ErrNegativeProfit},
		// A positive gross that the flash loan fee fully consumes is a
		// slippage failure, not a negative-profit one: the swap itself won.
		{"gross below flash loan fee", exchange.FixedRateExchange{Numerator: 10_000_001, Denominator: 10_000_000}, ErrSlippageExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.ex)
			h.approvedStrategy(t)

			_, err := h.engine.ExecuteStrategy(context.Background(), Request{
				Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 10 * sol,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}

			pool, _ := h.pool.Pool(context.Background())
			if pool.FlashLoanActive {
				t.Error("flash loan left active")
			}
		})
	}
}

func TestExecuteStrategy_NotApproved(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	ctx := context.Background()

	err := h.reg.CreateStrategy(ctx, creator, 1,
		[]string{"DEX_A"}, []domain.TokenPair{{TokenA: "SOL", TokenB: "USDC"}}, 50, 100)
	if err != nil {
		t.Fatalf("CreateStrategy failed: %v", err)
	}

	_, err = h.engine.ExecuteStrategy(ctx, Request{
		Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 10 * sol,
	})
	if !errors.Is(err, ErrStrategyNotApproved) {
		t.Errorf("expected ErrStrategyNotApproved, got %v", err)
	}
}

func TestExecuteStrategy_InsufficientVaultLiquidity(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	h.approvedStrategy(t)

	_, err := h.engine.ExecuteStrategy(context.Background(), Request{
		Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 501 * sol,
	})
	if !errors.Is(err, ErrInsufficientVaultLiquidity) {
		t.Errorf("expected ErrInsufficientVaultLiquidity, got %v", err)
	}
}

func TestExecuteStrategy_MetricsAccumulate(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})
	h.approvedStrategy(t)
	ctx := context.Background()

	req := Request{Creator: creator, StrategyID: 1, Executor: executor, BorrowAmount: 10 * sol}
	first, err := h.engine.ExecuteStrategy(ctx, req)
	if err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	second, err := h.engine.ExecuteStrategy(ctx, req)
	if err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}

	stats, _ := h.reg.GetStrategyStats(ctx, creator, 1)
	if stats.ExecutionCount != 2 || stats.SuccessCount != 2 {
		t.Errorf("stats = count %d success %d, want 2/2", stats.ExecutionCount, stats.SuccessCount)
	}
	if want := first.NetProfit + second.NetProfit; stats.TotalProfit != want {
		t.Errorf("TotalProfit = %d, want %d", stats.TotalProfit, want)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("SuccessRate = %d, want 100", stats.SuccessRate)
	}

	vault, _ := h.engine.Vault(ctx)
	if vault.TotalExecutions != 2 {
		t.Errorf("vault TotalExecutions = %d, want 2", vault.TotalExecutions)
	}
	history, _ := h.engine.History(ctx, creator, 1)
	if len(history) != 2 {
		t.Errorf("history has %d records, want 2", len(history))
	}
}

func TestDepositVaultLiquidity_ZeroAmount(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})

	if err := h.engine.DepositVaultLiquidity(context.Background(), funder, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestInitializeProfitConfig_InvalidSplit(t *testing.T) {
	h := newHarness(t, exchange.FixedRateExchange{Numerator: 108, Denominator: 100})

	err := h.engine.InitializeProfitConfig(context.Background(), pda.TreasuryAddress(), 5000, 4000, 2000)
	if err == nil {
		t.Error("profit split summing past 10000 bps was accepted")
	}
}
