package database

import (
	"context"
	"fmt"

	"github.com/yourusername/value-parlay/internal/config"
)

// schemaStatements create the tables the repositories depend on. Idempotent
// so the bot can run against a fresh database without a separate migration
// step.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		match_id          TEXT PRIMARY KEY,
		sport             TEXT NOT NULL,
		league            TEXT NOT NULL,
		home_team         TEXT NOT NULL,
		away_team         TEXT NOT NULL,
		match_date        TIMESTAMPTZ NOT NULL,
		predicted_outcome TEXT NOT NULL,
		probabilities     JSONB NOT NULL,
		odds              JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_match_date ON matches (match_date)`,
	`CREATE TABLE IF NOT EXISTS match_results (
		match_id    TEXT PRIMARY KEY,
		outcome     TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bets (
		id                   UUID PRIMARY KEY,
		bet_date             TIMESTAMPTZ NOT NULL,
		stake                DOUBLE PRECISION NOT NULL,
		total_odds           DOUBLE PRECISION NOT NULL,
		combined_probability DOUBLE PRECISION NOT NULL,
		result               TEXT NOT NULL,
		profit               DOUBLE PRECISION NOT NULL,
		bankroll_before      DOUBLE PRECISION NOT NULL,
		bankroll_after       DOUBLE PRECISION NOT NULL,
		placed_at            TIMESTAMPTZ NOT NULL,
		settled_at           TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_result ON bets (result)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_bet_date ON bets (bet_date)`,
	`CREATE TABLE IF NOT EXISTS bet_legs (
		bet_id            UUID NOT NULL REFERENCES bets (id) ON DELETE CASCADE,
		match_id          TEXT NOT NULL,
		sport             TEXT NOT NULL,
		league            TEXT NOT NULL,
		home_team         TEXT NOT NULL,
		away_team         TEXT NOT NULL,
		predicted_outcome TEXT NOT NULL,
		probability       DOUBLE PRECISION NOT NULL,
		odds              DOUBLE PRECISION NOT NULL,
		edge              DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bet_legs_bet_id ON bet_legs (bet_id)`,
	`CREATE TABLE IF NOT EXISTS bankroll_snapshots (
		snapshot_date DATE PRIMARY KEY,
		balance       DOUBLE PRECISION NOT NULL,
		change        DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS backtest_results (
		id               UUID PRIMARY KEY,
		start_date       TIMESTAMPTZ NOT NULL,
		end_date         TIMESTAMPTZ NOT NULL,
		initial_bankroll DOUBLE PRECISION NOT NULL,
		final_bankroll   DOUBLE PRECISION NOT NULL,
		total_bets       INTEGER NOT NULL,
		win_rate         DOUBLE PRECISION NOT NULL,
		total_roi        DOUBLE PRECISION NOT NULL,
		max_drawdown     DOUBLE PRECISION NOT NULL,
		sharpe_ratio     DOUBLE PRECISION NOT NULL,
		result           JSONB NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS parameters (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
