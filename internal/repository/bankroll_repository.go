package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/models"
)

// PostgresBankrollRepository implements BankrollRepository for PostgreSQL
type PostgresBankrollRepository struct {
	db *database.DB
}

// NewPostgresBankrollRepository creates a new bankroll repository
func NewPostgresBankrollRepository(db *database.DB) BankrollRepository {
	return &PostgresBankrollRepository{db: db}
}

// Latest returns the most recent balance snapshot; ErrNotFound before the
// first snapshot exists
func (r *PostgresBankrollRepository) Latest(ctx context.Context) (*models.BalanceSnapshot, error) {
	query := `
		SELECT snapshot_date, balance, change
		FROM bankroll_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	snapshot := &models.BalanceSnapshot{}
	err := r.db.QueryRow(ctx, query).Scan(&snapshot.Date, &snapshot.Balance, &snapshot.Change)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest bankroll snapshot: %w", err)
	}
	return snapshot, nil
}

// SaveSnapshot appends a daily balance point, one row per day
func (r *PostgresBankrollRepository) SaveSnapshot(ctx context.Context, snapshot models.BalanceSnapshot) error {
	query := `
		INSERT INTO bankroll_snapshots (snapshot_date, balance, change)
		VALUES ($1, $2, $3)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			balance = EXCLUDED.balance,
			change = EXCLUDED.change
	`
	if _, err := r.db.Exec(ctx, query, snapshot.Date, snapshot.Balance, snapshot.Change); err != nil {
		return fmt.Errorf("failed to save bankroll snapshot: %w", err)
	}
	return nil
}

// GetHistory returns the balance series inside [start, end], oldest first
func (r *PostgresBankrollRepository) GetHistory(ctx context.Context, start, end time.Time) ([]models.BalanceSnapshot, error) {
	query := `
		SELECT snapshot_date, balance, change
		FROM bankroll_snapshots
		WHERE snapshot_date >= $1 AND snapshot_date <= $2
		ORDER BY snapshot_date ASC
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query bankroll history: %w", err)
	}
	defer rows.Close()

	var history []models.BalanceSnapshot
	for rows.Next() {
		var snapshot models.BalanceSnapshot
		if err := rows.Scan(&snapshot.Date, &snapshot.Balance, &snapshot.Change); err != nil {
			return nil, fmt.Errorf("failed to scan bankroll snapshot: %w", err)
		}
		history = append(history, snapshot)
	}

	return history, rows.Err()
}
