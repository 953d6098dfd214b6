// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Flash loan metrics
	FlashLoansIssued prometheus.Counter
	FlashLoansRepaid prometheus.Counter
	FlashLoanFees    prometheus.Counter
	PoolLiquidity    prometheus.Gauge

	// Strategy metrics
	StrategiesCreated   prometheus.Counter
	StrategyTransitions *prometheus.CounterVec

	// Execution metrics
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration prometheus.Histogram
	ProfitDistributed prometheus.Counter
	ExecutionErrors   *prometheus.CounterVec

	// Governance metrics
	ProposalsCreated  prometheus.Counter
	VotesCast         *prometheus.CounterVec
	ProposalsExecuted prometheus.Counter
	TreasuryDeposits  prometheus.Counter
	TreasuryBalance   prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulExecution prometheus.Gauge
	EventSubscribers        prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_arb_dao"
	}

	return &Metrics{
		// Flash loan metrics
		FlashLoansIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flashloan",
			Name:      "loans_issued_total",
			Help:      "Total number of flash loans issued",
		}),
		FlashLoansRepaid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flashloan",
			Name:      "loans_repaid_total",
			Help:      "Total number of flash loans repaid",
		}),
		FlashLoanFees: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flashloan",
			Name:      "fees_collected_total",
			Help:      "Total flash loan fees collected in base units",
		}),
		PoolLiquidity: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "flashloan",
			Name:      "pool_liquidity",
			Help:      "Current flash loan pool liquidity in base units",
		}),

		// Strategy metrics
		StrategiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "strategies_created_total",
			Help:      "Total number of strategies registered",
		}),
		StrategyTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "strategy_transitions_total",
			Help:      "Total number of strategy status transitions by target status",
		}, []string{"status"}),

		// Execution metrics
		ExecutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "executions_total",
			Help:      "Total number of execution cycles by outcome",
		}, []string{"outcome"}),
		ExecutionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "execution_duration_seconds",
			Help:      "Execution cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ProfitDistributed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "profit_distributed_total",
			Help:      "Total net profit distributed in base units",
		}),
		ExecutionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "execution_errors_total",
			Help:      "Total number of failed execution cycles by cause",
		}, []string{"cause"}),

		// Governance metrics
		ProposalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "proposals_created_total",
			Help:      "Total number of proposals created",
		}),
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "votes_cast_total",
			Help:      "Total number of votes cast by choice",
		}, []string{"choice"}),
		ProposalsExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "proposals_executed_total",
			Help:      "Total number of proposals executed",
		}),
		TreasuryDeposits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "treasury_deposits_total",
			Help:      "Total number of treasury deposits",
		}),
		TreasuryBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "governance",
			Name:      "treasury_balance",
			Help:      "Current treasury balance in base units",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulExecution: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_execution_timestamp",
			Help:      "Unix timestamp of the last successful execution cycle",
		}),
		EventSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "event_subscribers",
			Help:      "Current number of websocket event subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFlashLoan records one issued-and-repaid flash loan.
func RecordFlashLoan(fee uint64) {
	DefaultMetrics.FlashLoansIssued.Inc()
	DefaultMetrics.FlashLoansRepaid.Inc()
	DefaultMetrics.FlashLoanFees.Add(float64(fee))
}

// RecordStrategyCreated increments the strategies created counter.
func RecordStrategyCreated() {
	DefaultMetrics.StrategiesCreated.Inc()
}

// RecordStrategyTransition records a status transition.
func RecordStrategyTransition(status string) {
	DefaultMetrics.StrategyTransitions.WithLabelValues(status).Inc()
}

// RecordExecution records one execution cycle outcome.
func RecordExecution(outcome string, durationSeconds float64) {
	DefaultMetrics.ExecutionsTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.ExecutionDuration.Observe(durationSeconds)
}

// RecordExecutionError records a failed cycle by cause.
func RecordExecutionError(cause string) {
	DefaultMetrics.ExecutionErrors.WithLabelValues(cause).Inc()
}

// RecordProfitDistributed adds to the distributed profit counter.
func RecordProfitDistributed(net uint64) {
	DefaultMetrics.ProfitDistributed.Add(float64(net))
}

// RecordVote records one cast vote.
func RecordVote(choice string) {
	DefaultMetrics.VotesCast.WithLabelValues(choice).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
