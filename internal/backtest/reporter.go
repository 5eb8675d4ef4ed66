package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/value-parlay/internal/models"
)

// GenerateConsoleReport formats a backtest result for terminal output
func GenerateConsoleReport(result *models.BacktestResult) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Period: %s to %s\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02")))

	if result.NoBetsPlaced {
		builder.WriteString("No bets placed\n")
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("Total Bets: %d (%d won, %d lost, %d zero-bet days)\n",
		result.TotalBets, result.Wins, result.Losses, result.ZeroBetDays))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", result.WinRate))
	builder.WriteString(fmt.Sprintf("Bankroll: %.2f -> %.2f\n", result.InitialBankroll, result.FinalBankroll))
	builder.WriteString(fmt.Sprintf("Total ROI: %.2f%%\n", result.TotalROI))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %.2f\n", result.SharpeRatio))
	builder.WriteString(fmt.Sprintf("Calmar Ratio: %.2f\n", result.CalmarRatio))
	builder.WriteString(fmt.Sprintf("Avg Profit/Bet: %.2f\n", result.AvgProfitPerBet))
	return builder.String()
}

// ExportJSON writes the full result (ledger, balance series, metrics)
// for downstream reporting layers
func ExportJSON(result *models.BacktestResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ExportBalanceCSV writes the daily balance series for spreadsheets
func ExportBalanceCSV(result *models.BacktestResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("date,balance,change\n")
	for _, point := range result.DailyBalances {
		builder.WriteString(fmt.Sprintf("%s,%.2f,%.2f\n",
			point.Date.Format("2006-01-02"), point.Balance, point.Change))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}
