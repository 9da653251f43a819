package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordSimulationRun(t *testing.T) {
	InitRegistry()

	for _, status := range []string{"success", "failure", "timeout"} {
		assert.NotPanics(t, func() {
			RecordSimulationRun(status)
		})
	}
}

func TestObserveRunDuration(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name    string
		seconds float64
	}{
		{name: "fast run", seconds: 0.2},
		{name: "deadline edge", seconds: 30.0},
		{name: "zero duration", seconds: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				ObserveRunDuration(tt.seconds)
			})
		})
	}
}

func TestAddPathsSimulated(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		AddPathsSimulated(50000)
	})
}

func TestRecordAssumptionValidationFailure(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordAssumptionValidationFailure()
	})
}

func TestUpdateProbabilityOfSuccess(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name        string
		scenario    string
		probability float64
	}{
		{name: "baseline", scenario: "baseline", probability: 0.78},
		{name: "save more", scenario: "save_more", probability: 0.84},
		{name: "guaranteed", scenario: "spend_less", probability: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateProbabilityOfSuccess(tt.scenario, tt.probability)
			})
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordSimulationRun(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordSimulationRun("success")
	}
}

func BenchmarkAddPathsSimulated(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		AddPathsSimulated(50000)
	}
}
