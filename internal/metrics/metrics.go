// Package metrics provides the centralized Prometheus metrics registry
// for the value parlay bot.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CandidatesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "candidates_evaluated_total",
		Help:      "Total number of match candidates evaluated",
	})
	PicksAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "picks_accepted_total",
		Help:      "Total number of candidates accepted as value picks",
	})
	PicksRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "picks_rejected_total",
		Help:      "Total number of candidates rejected, by reason",
	}, []string{"reason"})
	ParlaysBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "parlays_built_total",
		Help:      "Total number of parlays built by the optimizer",
	})
	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "bets_placed_total",
		Help:      "Total number of bets placed",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled, by result",
	}, []string{"result"})
	ZeroBetDaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "value_parlay",
		Name:      "zero_bet_days_total",
		Help:      "Total number of decision cycles that placed no bet",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_parlay",
		Name:      "current_bankroll",
		Help:      "Current bankroll balance",
	})
	LastParlayEdge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_parlay",
		Name:      "last_parlay_edge",
		Help:      "Edge of the most recently built parlay",
	})
	LastParlayOdds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "value_parlay",
		Name:      "last_parlay_total_odds",
		Help:      "Total odds of the most recently built parlay",
	})
)

// Histogram metrics
var (
	StakeFractionOfBankroll = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_parlay",
		Name:      "stake_fraction_of_bankroll",
		Help:      "Recommended stake as a fraction of the bankroll",
		Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.02, 0.03, 0.04, 0.05},
	})
	OptimizerDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_parlay",
		Name:      "optimizer_duration_seconds",
		Help:      "Duration of parlay optimization in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "value_parlay",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CandidatesEvaluatedTotal)
		registry.MustRegister(PicksAcceptedTotal)
		registry.MustRegister(PicksRejectedTotal)
		registry.MustRegister(ParlaysBuiltTotal)
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(ZeroBetDaysTotal)

		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(LastParlayEdge)
		registry.MustRegister(LastParlayOdds)

		registry.MustRegister(StakeFractionOfBankroll)
		registry.MustRegister(OptimizerDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCandidatesEvaluated records a batch of evaluated candidates.
func RecordCandidatesEvaluated(count int) {
	CandidatesEvaluatedTotal.Add(float64(count))
}

// RecordPickAccepted records an accepted value pick.
func RecordPickAccepted() {
	PicksAcceptedTotal.Inc()
}

// RecordPickRejected records a rejected candidate with its first reason.
func RecordPickRejected(reason string) {
	PicksRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordParlayBuilt records a built parlay and its headline numbers.
func RecordParlayBuilt(edge, totalOdds float64) {
	ParlaysBuiltTotal.Inc()
	LastParlayEdge.Set(edge)
	LastParlayOdds.Set(totalOdds)
}

// RecordBetPlaced records a bet placement event.
func RecordBetPlaced(stakeFraction float64) {
	BetsPlacedTotal.Inc()
	StakeFractionOfBankroll.Observe(stakeFraction)
}

// RecordBetSettled records a bet settlement event.
func RecordBetSettled(result string) {
	BetsSettledTotal.WithLabelValues(result).Inc()
}

// RecordZeroBetDay records a decision cycle that placed nothing.
func RecordZeroBetDay() {
	ZeroBetDaysTotal.Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// RecordOptimizerDuration records parlay search duration.
func RecordOptimizerDuration(durationSeconds float64) {
	OptimizerDuration.Observe(durationSeconds)
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}
