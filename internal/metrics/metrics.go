// Package metrics provides the centralized Prometheus metrics registry for
// the retirement simulation engine.
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
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retiresim",
		Name:      "simulation_runs_total",
		Help:      "Total number of simulation runs by status",
	}, []string{"status"})
	PathsSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retiresim",
		Name:      "paths_simulated_total",
		Help:      "Total number of Monte Carlo paths projected",
	})
	AssumptionValidationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retiresim",
		Name:      "assumption_validation_failures_total",
		Help:      "Total number of rejected capital market assumption sets",
	})
)

// Gauge metrics
var (
	ProbabilityOfSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "retiresim",
		Name:      "probability_of_success",
		Help:      "Probability of success from the most recent run per scenario",
	}, []string{"scenario"})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "retiresim",
		Name:      "simulation_duration_seconds",
		Help:      "Wall-clock duration of one scenario run in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(PathsSimulatedTotal)
		registry.MustRegister(AssumptionValidationFailuresTotal)
		registry.MustRegister(ProbabilityOfSuccess)
		registry.MustRegister(SimulationDuration)
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

// RecordSimulationRun records a completed, failed or timed-out scenario run.
// status should be one of: "success", "failure", "timeout".
func RecordSimulationRun(status string) {
	SimulationRunsTotal.WithLabelValues(status).Inc()
}

// ObserveRunDuration records one scenario's wall-clock duration.
func ObserveRunDuration(seconds float64) {
	SimulationDuration.Observe(seconds)
}

// AddPathsSimulated adds to the projected-path counter.
func AddPathsSimulated(count int) {
	PathsSimulatedTotal.Add(float64(count))
}

// RecordAssumptionValidationFailure records a rejected assumption set.
func RecordAssumptionValidationFailure() {
	AssumptionValidationFailuresTotal.Inc()
}

// UpdateProbabilityOfSuccess updates the per-scenario success gauge.
func UpdateProbabilityOfSuccess(scenario string, probability float64) {
	ProbabilityOfSuccess.WithLabelValues(scenario).Set(probability)
}
