package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/models"
)

// PostgresBacktestResultRepository implements BacktestResultRepository.
// The full result (ledger and balance series included) is stored as JSONB
// next to the headline metrics so past runs stay queryable and replayable.
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// Save persists a finished backtest run
func (r *PostgresBacktestResultRepository) Save(ctx context.Context, result *models.BacktestResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result: %w", err)
	}

	query := `
		INSERT INTO backtest_results (id, start_date, end_date, initial_bankroll, final_bankroll,
		                              total_bets, win_rate, total_roi, max_drawdown, sharpe_ratio,
		                              result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err = r.db.Exec(ctx, query,
		uuid.New(), result.StartDate, result.EndDate, result.InitialBankroll, result.FinalBankroll,
		result.TotalBets, result.WinRate, result.TotalROI, result.MaxDrawdown, result.SharpeRatio,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// GetLatest returns the most recent runs, newest first
func (r *PostgresBacktestResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error) {
	query := `
		SELECT result
		FROM backtest_results
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	var results []*models.BacktestResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan backtest result: %w", err)
		}
		result := &models.BacktestResult{}
		if err := json.Unmarshal(payload, result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal backtest result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
