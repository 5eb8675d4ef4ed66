package metrics

import (
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

func TestRecordHelpers(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCandidatesEvaluated(12)
		RecordPickAccepted()
		RecordPickRejected("edge below minimum")
		RecordParlayBuilt(0.12, 8.36)
		RecordBetPlaced(0.05)
		RecordBetSettled("win")
		RecordZeroBetDay()
		RecordOptimizerDuration(0.02)
		RecordBacktestDuration(4.2)
	})
}

func TestUpdateBankroll(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		bankroll float64
	}{
		{"positive bankroll", 10000},
		{"zero bankroll", 0},
		{"negative bankroll", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBankroll(tt.bankroll)
			})
		})
	}
}

func TestHandler(t *testing.T) {
	InitRegistry()
	assert.NotNil(t, Handler())
}
