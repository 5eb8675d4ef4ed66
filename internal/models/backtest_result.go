package models

import "time"

// BacktestResult is the full outcome of a historical replay: the bet
// ledger, the daily balance series and the aggregate metrics. When no bet
// was ever placed all metrics are zero and NoBetsPlaced is set.
type BacktestResult struct {
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	InitialBankroll float64           `json:"initial_bankroll"`
	FinalBankroll   float64           `json:"final_bankroll"`
	TotalBets       int               `json:"total_bets"`
	Wins            int               `json:"wins"`
	Losses          int               `json:"losses"`
	WinRate         float64           `json:"win_rate"`
	TotalProfit     float64           `json:"total_profit"`
	TotalROI        float64           `json:"total_roi"`
	MaxDrawdown     float64           `json:"max_drawdown"`
	SharpeRatio     float64           `json:"sharpe_ratio"`
	CalmarRatio     float64           `json:"calmar_ratio"`
	AvgProfitPerBet float64           `json:"avg_profit_per_bet"`
	AvgOdds         float64           `json:"avg_odds"`
	ZeroBetDays     int               `json:"zero_bet_days"`
	NoBetsPlaced    bool              `json:"no_bets_placed"`
	Bets            []BetRecord       `json:"bets"`
	DailyBalances   []BalanceSnapshot `json:"daily_balances"`
}
