package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-parlay/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func snapshots(balances ...float64) []models.BalanceSnapshot {
	series := make([]models.BalanceSnapshot, len(balances))
	for i, b := range balances {
		series[i] = models.BalanceSnapshot{Date: day(i), Balance: b}
	}
	return series
}

func TestAggregateNoBetsPlaced(t *testing.T) {
	cfg := testConfig(day(0), day(4))
	state := NewState(cfg.InitialBankroll)
	for i := 0; i < 5; i++ {
		state.ZeroBetDays++
		state.RecordDay(day(i), 0)
	}

	result := Aggregate(state, cfg)
	assert.True(t, result.NoBetsPlaced)
	assert.Equal(t, 0, result.TotalBets)
	assert.Equal(t, 5, result.ZeroBetDays)
	assert.Equal(t, 1000.0, result.FinalBankroll)
	assert.Zero(t, result.TotalROI)
	assert.Zero(t, result.SharpeRatio)
}

func TestAggregateMetrics(t *testing.T) {
	cfg := testConfig(day(0), day(2))
	state := NewState(cfg.InitialBankroll)

	win := models.BetRecord{Result: models.BetResultWin, Profit: 200.0, Stake: 50.0, TotalOdds: 5.0}
	loss := models.BetRecord{Result: models.BetResultLoss, Profit: -60.0, Stake: 60.0, TotalOdds: 4.0}

	state.RecordBet(win)
	state.RecordDay(day(0), win.Profit)
	state.RecordBet(loss)
	state.RecordDay(day(1), loss.Profit)

	result := Aggregate(state, cfg)
	require.False(t, result.NoBetsPlaced)
	assert.Equal(t, 2, result.TotalBets)
	assert.Equal(t, 1, result.Wins)
	assert.Equal(t, 1, result.Losses)
	assert.InDelta(t, 50.0, result.WinRate, 1e-9)
	assert.InDelta(t, 140.0, result.TotalProfit, 1e-9)
	assert.InDelta(t, 1140.0, result.FinalBankroll, 1e-9)
	assert.InDelta(t, 14.0, result.TotalROI, 1e-9)
	assert.InDelta(t, 70.0, result.AvgProfitPerBet, 1e-9)
	assert.InDelta(t, 4.5, result.AvgOdds, 1e-9)
	// peak 1200, trough 1140
	assert.InDelta(t, 5.0, result.MaxDrawdown, 1e-9)
	assert.InDelta(t, 14.0/5.0, result.CalmarRatio, 1e-9)
}

func TestMaxDrawdownPct(t *testing.T) {
	assert.Zero(t, maxDrawdownPct(nil))
	assert.Zero(t, maxDrawdownPct(snapshots(1000, 1100, 1200)))

	// peak 1100, trough 900
	dd := maxDrawdownPct(snapshots(1000, 1100, 900, 1050))
	assert.InDelta(t, 200.0/1100.0*100, dd, 1e-9)
}

func TestSharpeRatio(t *testing.T) {
	assert.Zero(t, sharpeRatio(nil))
	assert.Zero(t, sharpeRatio([]float64{0.05}))
	// zero variance
	assert.Zero(t, sharpeRatio([]float64{0.02, 0.02, 0.02}))

	// mean 0.025, sample stddev ~0.10607, annualized over 365 days
	got := sharpeRatio([]float64{0.1, -0.05})
	assert.InDelta(t, 4.5031, got, 0.001)
}

func TestDailyReturns(t *testing.T) {
	returns := dailyReturns(snapshots(1000, 1100, 990))
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)

	assert.Nil(t, dailyReturns(snapshots(1000)))
}
