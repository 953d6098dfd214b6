// Package main provides the unified arbitrage DAO daemon:
// - Programs: flash loan pool, strategy registry, governance, execution engine
// - HTTP API: execution trigger plus read-only state endpoints
// - Websocket feed: ledger events for off-chain indexers
// - Prometheus metrics on the same listener
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"solana-arb-dao/internal/domain"
	"solana-arb-dao/internal/engine"
	"solana-arb-dao/internal/events"
	"solana-arb-dao/internal/exchange"
	"solana-arb-dao/internal/feed"
	"solana-arb-dao/internal/flashloan"
	"solana-arb-dao/internal/governance"
	"solana-arb-dao/internal/ledger"
	"solana-arb-dao/internal/observability"
	"solana-arb-dao/internal/pda"
	"solana-arb-dao/internal/registry"
	"solana-arb-dao/internal/storage"
	chstore "solana-arb-dao/internal/storage/clickhouse"
	"solana-arb-dao/internal/storage/memory"
	"solana-arb-dao/internal/storage/migrations"
	pgstore "solana-arb-dao/internal/storage/postgres"
)

// Server holds all components of the daemon.
type Server struct {
	ledger     *ledger.Ledger
	bus        *events.Bus
	flashPool  *flashloan.Program
	registry   *registry.Program
	governance *governance.Program
	engine     *engine.Engine
	stores     *allStores
	logger     *log.Logger

	startedAt time.Time
}

// allStores holds all storage implementations.
type allStores struct {
	strategies storage.StrategyStore
	proposals  storage.ProposalStore
	votes      storage.VoteRecordStore
	pool       storage.PoolStore
	governance storage.GovernanceStore
	vault      storage.VaultStore
	history    storage.ExecutionStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	httpAddr := flag.String("http-addr", envOr("HTTP_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for execution history")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	admin := flag.String("admin", envOr("ADMIN_ADDRESS", "admin"), "Registry admin address")
	feeBps := flag.Uint("flash-loan-fee-bps", uint(domain.DefaultFeeBps), "Flash loan fee in basis points")
	demo := flag.Bool("demo", false, "Seed a demo genesis: funded pool and vault, one approved strategy")

	flag.Parse()

	logger := log.New(os.Stdout, "[ledgerd] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}
	if *feeBps > uint(domain.MaxFeeBps) {
		logger.Fatalf("--flash-loan-fee-bps must be at most %d", domain.MaxFeeBps)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server, err := buildServer(ctx, stores, *admin, uint16(*feeBps), *demo, logger)
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: server.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Starting HTTP server on %s", *httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-errCh:
		logger.Printf("HTTP server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// buildServer wires the ledger, programs and engine together and applies
// the optional demo genesis.
func buildServer(ctx context.Context, stores *allStores, admin string, feeBps uint16, demo bool, logger *log.Logger) (*Server, error) {
	led := ledger.New()
	bus := events.NewBus()

	flashPool := flashloan.New(flashloan.Options{
		Ledger: led,
		Store:  stores.pool,
		Bus:    bus,
		Logger: log.New(os.Stdout, "[flashloan] ", log.LstdFlags),
	})

	reg := registry.New(registry.Options{
		Store:  stores.strategies,
		Bus:    bus,
		Logger: log.New(os.Stdout, "[registry] ", log.LstdFlags),
	})

	gov := governance.New(governance.Options{
		Ledger:    led,
		Store:     stores.governance,
		Proposals: stores.proposals,
		Votes:     stores.votes,
		Approver:  reg,
		Bus:       bus,
		Logger:    log.New(os.Stdout, "[governance] ", log.LstdFlags),
	})

	eng := engine.New(engine.Options{
		Ledger:     led,
		Pool:       flashPool,
		Registry:   reg,
		Exchange:   exchange.NewMockExchange(),
		Treasury:   gov,
		Vaults:     stores.vault,
		Pools:      stores.pool,
		Strategies: stores.strategies,
		History:    stores.history,
		Governance: stores.governance,
		Bus:        bus,
		Logger:     log.New(os.Stdout, "[engine] ", log.LstdFlags),
	})

	server := &Server{
		ledger:     led,
		bus:        bus,
		flashPool:  flashPool,
		registry:   reg,
		governance: gov,
		engine:     eng,
		stores:     stores,
		logger:     logger,
		startedAt:  time.Now(),
	}

	if err := server.initialize(ctx, domain.Address(admin), feeBps); err != nil {
		return nil, err
	}
	if demo {
		if err := server.seedDemo(ctx, domain.Address(admin)); err != nil {
			return nil, fmt.Errorf("seed demo genesis: %w", err)
		}
	}

	return server, nil
}

// initialize runs the one-time program initializations, tolerating
// already-initialized state from a previous run against the same database.
func (s *Server) initialize(ctx context.Context, admin domain.Address, feeBps uint16) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"pool", func() error { return s.flashPool.InitializePool(ctx, admin, feeBps) }},
		{"registry admin", func() error { return s.registry.InitializeAdmin(admin) }},
		{"governance", func() error { return s.governance.Initialize(ctx, governance.InitParams{}) }},
		{"vault", func() error { return s.engine.InitializeVault(ctx, admin) }},
		{"profit config", func() error {
			return s.engine.InitializeProfitConfig(ctx, pda.TreasuryAddress(),
				domain.CreatorShareBps, domain.ExecutorShareBps, domain.TreasuryShareBps)
		}},
		{"governance authority", func() error {
			return s.registry.SetGovernanceAuthority(admin, s.governance.Authority())
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			if errors.Is(err, storage.ErrAlreadyInitialized) {
				s.logger.Printf("%s already initialized, continuing", step.name)
				continue
			}
			return fmt.Errorf("initialize %s: %w", step.name, err)
		}
	}
	return nil
}

// Demo genesis accounts.
const (
	demoFunder   = domain.Address("demo-funder")
	demoCreator  = domain.Address("demo-creator")
	demoStrategy = uint64(1)
)

// seedDemo funds the pool and vault and registers one approved strategy
// so /execute works immediately.
func (s *Server) seedDemo(ctx context.Context, admin domain.Address) error {
	const lamportsPerSOL = 1_000_000_000

	if err := s.ledger.MintTo(domain.WSOLMint, demoFunder, 2_000*lamportsPerSOL); err != nil {
		return err
	}
	if err := s.flashPool.DepositLiquidity(ctx, demoFunder, 1_000*lamportsPerSOL); err != nil {
		return err
	}
	if err := s.engine.DepositVaultLiquidity(ctx, demoFunder, 500*lamportsPerSOL); err != nil {
		return err
	}
	if err := s.governance.DistributeTokens(ctx); err != nil {
		return err
	}

	venues := []string{exchange.VenueA, exchange.VenueB}
	pairs := []domain.TokenPair{
		{TokenA: exchange.TokenSOL, TokenB: exchange.TokenUSDC},
		{TokenA: exchange.TokenUSDC, TokenB: exchange.TokenSOL},
	}
	err := s.registry.CreateStrategy(ctx, demoCreator, demoStrategy, venues, pairs,
		domain.MinProfitThresholdBps, domain.MaxSlippageBps)
	if err != nil {
		return err
	}
	if err := s.registry.ApproveStrategy(ctx, admin, demoCreator, demoStrategy); err != nil {
		return err
	}

	s.logger.Printf("demo genesis seeded: creator=%s strategy=%d", demoCreator, demoStrategy)
	return nil
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			strategies: memory.NewStrategyStore(),
			proposals:  memory.NewProposalStore(),
			votes:      memory.NewVoteRecordStore(),
			pool:       memory.NewPoolStore(),
			governance: memory.NewGovernanceStore(),
			vault:      memory.NewVaultStore(),
			history:    memory.NewExecutionStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := &allStores{
		strategies: pgstore.NewStrategyStore(pool),
		proposals:  pgstore.NewProposalStore(pool),
		votes:      pgstore.NewVoteRecordStore(pool),
		pool:       pgstore.NewPoolStore(pool),
		governance: pgstore.NewGovernanceStore(pool),
		vault:      pgstore.NewVaultStore(pool),
		history:    pgstore.NewExecutionStore(pool),
	}
	cleanup := func() { pool.Close() }

	// Execution history goes to ClickHouse when configured; Postgres
	// keeps it otherwise so a single database is enough to run.
	if clickhouseDSN != "" {
		chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.history = chstore.NewExecutionHistoryStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
		logger.Println("Execution history stored in ClickHouse")
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.Handle("/events", feed.NewServer(s.bus, s.logger))
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/pool", s.handlePool)
	mux.HandleFunc("/vault", s.handleVault)
	mux.HandleFunc("/treasury", s.handleTreasury)
	mux.HandleFunc("/strategies", s.handleStrategies)
	mux.HandleFunc("/proposals", s.handleProposals)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	PoolLiquidity   uint64 `json:"pool_liquidity"`
	TotalLoans      uint64 `json:"total_loans"`
	VaultExecutions uint64 `json:"vault_executions"`
	TreasuryBalance uint64 `json:"treasury_balance"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status: "running",
		Uptime: time.Since(s.startedAt).String(),
	}
	if pool, err := s.flashPool.Pool(r.Context()); err == nil {
		resp.PoolLiquidity = s.ledger.Balance(domain.WSOLMint, pool.TokenAccount)
		resp.TotalLoans = pool.TotalLoans
	}
	if vault, err := s.engine.Vault(r.Context()); err == nil {
		resp.VaultExecutions = vault.TotalExecutions
	}
	if treasury, err := s.governance.Treasury(r.Context()); err == nil {
		resp.TreasuryBalance = treasury.AvailableBalance()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExecuteRequest is the JSON body for POST /execute.
type ExecuteRequest struct {
	Creator      string `json:"creator"`
	StrategyID   uint64 `json:"strategy_id"`
	Executor     string `json:"executor"`
	BorrowAmount uint64 `json:"borrow_amount"`
	MinProfit    uint64 `json:"min_profit"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.engine.ExecuteStrategy(r.Context(), engine.Request{
		Creator:      domain.Address(req.Creator),
		StrategyID:   req.StrategyID,
		Executor:     domain.Address(req.Executor),
		BorrowAmount: req.BorrowAmount,
		MinProfit:    req.MinProfit,
	})
	if err != nil {
		observability.RecordExecution("failure", time.Since(start).Seconds())
		observability.RecordExecutionError(errorCause(err))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	observability.RecordExecution("success", time.Since(start).Seconds())
	observability.RecordProfitDistributed(result.NetProfit)
	observability.DefaultMetrics.LastSuccessfulExecution.Set(float64(time.Now().Unix()))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.flashPool.Pool(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) handleVault(w http.ResponseWriter, r *http.Request) {
	vault, err := s.engine.Vault(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vault)
}

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	treasury, err := s.governance.Treasury(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treasury)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	creator := r.URL.Query().Get("creator")
	if creator == "" {
		http.Error(w, "creator query parameter is required", http.StatusBadRequest)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		strategyID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		stats, err := s.registry.GetStrategyStats(r.Context(), domain.Address(creator), strategyID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
		return
	}

	strategies, err := s.stores.strategies.ListByCreator(r.Context(), domain.Address(creator))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, strategies)
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := s.stores.proposals.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// errorCause maps engine errors to a stable metric label.
func errorCause(err error) string {
	switch {
	case errors.Is(err, engine.ErrStrategyNotApproved):
		return "not_approved"
	case errors.Is(err, engine.ErrInsufficientVaultLiquidity):
		return "vault_liquidity"
	case errors.Is(err, engine.ErrNegativeProfit):
		return "negative_profit"
	case errors.Is(err, engine.ErrSlippageExceeded):
		return "slippage"
	default:
		return "other"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
