package backtest

import (
	"math"

	"github.com/yourusername/value-parlay/internal/models"
)

// Aggregate computes the terminal metrics from simulation state. When no
// bet was ever placed every metric is zero and the result carries an
// explicit no-bets-placed marker instead of failing.
func Aggregate(state *State, cfg Config) *models.BacktestResult {
	result := &models.BacktestResult{
		StartDate:       cfg.StartDate,
		EndDate:         cfg.EndDate,
		InitialBankroll: cfg.InitialBankroll,
		FinalBankroll:   cfg.InitialBankroll,
		Bets:            []models.BetRecord{},
		DailyBalances:   []models.BalanceSnapshot{},
	}
	if state == nil {
		result.NoBetsPlaced = true
		return result
	}

	result.FinalBankroll = state.Bankroll.Current
	result.Bets = state.Bets
	result.DailyBalances = state.Bankroll.History
	result.ZeroBetDays = state.ZeroBetDays
	result.TotalBets = len(state.Bets)

	if result.TotalBets == 0 {
		result.NoBetsPlaced = true
		result.FinalBankroll = state.Bankroll.Current
		return result
	}

	totalProfit := 0.0
	totalOdds := 0.0
	for _, bet := range state.Bets {
		totalProfit += bet.Profit
		totalOdds += bet.TotalOdds
		if bet.Result == models.BetResultWin {
			result.Wins++
		} else {
			result.Losses++
		}
	}

	result.TotalProfit = totalProfit
	result.WinRate = float64(result.Wins) / float64(result.TotalBets) * 100
	result.AvgProfitPerBet = totalProfit / float64(result.TotalBets)
	result.AvgOdds = totalOdds / float64(result.TotalBets)
	if cfg.InitialBankroll > 0 {
		result.TotalROI = (result.FinalBankroll - cfg.InitialBankroll) / cfg.InitialBankroll * 100
	}
	result.MaxDrawdown = maxDrawdownPct(state.Bankroll.History)
	result.SharpeRatio = sharpeRatio(dailyReturns(state.Bankroll.History))
	if result.MaxDrawdown > 0 {
		result.CalmarRatio = result.TotalROI / result.MaxDrawdown
	}

	return result
}

// maxDrawdownPct is the largest peak-to-trough decline over the balance
// series, as a percentage of the running maximum
func maxDrawdownPct(series []models.BalanceSnapshot) float64 {
	maxDD := 0.0
	peak := 0.0
	for _, point := range series {
		if point.Balance > peak {
			peak = point.Balance
		}
		if peak == 0 {
			continue
		}
		dd := (peak - point.Balance) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// dailyReturns converts the balance series into daily percentage returns
func dailyReturns(series []models.BalanceSnapshot) []float64 {
	if len(series) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Balance
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (series[i].Balance-prev)/prev)
	}
	return returns
}

// sharpeRatio annualizes mean/stdev of daily returns over a 365-day sports
// calendar; zero for fewer than two observations or zero variance
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns, mean)
	if std == 0 {
		return 0
	}
	return math.Sqrt(365) * mean / std
}

func average(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator)
func stddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}
