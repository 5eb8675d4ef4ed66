package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/models"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL.
// Probability and odds maps are stored as JSONB.
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert inserts or refreshes a match candidate
func (r *PostgresMatchRepository) Upsert(ctx context.Context, candidate *models.Candidate) error {
	probabilities, err := json.Marshal(candidate.Probabilities)
	if err != nil {
		return fmt.Errorf("failed to marshal probabilities: %w", err)
	}
	odds, err := json.Marshal(candidate.Odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds: %w", err)
	}

	query := `
		INSERT INTO matches (match_id, sport, league, home_team, away_team,
		                     match_date, predicted_outcome, probabilities, odds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_id) DO UPDATE SET
			predicted_outcome = EXCLUDED.predicted_outcome,
			probabilities = EXCLUDED.probabilities,
			odds = EXCLUDED.odds
	`

	_, err = r.db.Exec(ctx, query,
		candidate.MatchID, candidate.Sport, candidate.League, candidate.HomeTeam, candidate.AwayTeam,
		candidate.MatchDate, candidate.PredictedOutcome, probabilities, odds,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// UpsertBatch upserts a batch of candidates in one transaction
func (r *PostgresMatchRepository) UpsertBatch(ctx context.Context, candidates []models.Candidate) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO matches (match_id, sport, league, home_team, away_team,
			                     match_date, predicted_outcome, probabilities, odds)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (match_id) DO UPDATE SET
				predicted_outcome = EXCLUDED.predicted_outcome,
				probabilities = EXCLUDED.probabilities,
				odds = EXCLUDED.odds
		`
		for i := range candidates {
			c := &candidates[i]
			probabilities, err := json.Marshal(c.Probabilities)
			if err != nil {
				return fmt.Errorf("failed to marshal probabilities: %w", err)
			}
			odds, err := json.Marshal(c.Odds)
			if err != nil {
				return fmt.Errorf("failed to marshal odds: %w", err)
			}
			_, err = tx.Exec(ctx, query,
				c.MatchID, c.Sport, c.League, c.HomeTeam, c.AwayTeam,
				c.MatchDate, c.PredictedOutcome, probabilities, odds,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert match %s: %w", c.MatchID, err)
			}
		}
		return nil
	})
}

// GetByDate retrieves all candidates whose match falls on the given day
func (r *PostgresMatchRepository) GetByDate(ctx context.Context, date time.Time) ([]models.Candidate, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT match_id, sport, league, home_team, away_team,
		       match_date, predicted_outcome, probabilities, odds
		FROM matches
		WHERE match_date >= $1 AND match_date < $2
		ORDER BY match_date ASC, match_id ASC
	`

	rows, err := r.db.Query(ctx, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var (
			c                 models.Candidate
			probabilities     []byte
			odds              []byte
		)
		err := rows.Scan(
			&c.MatchID, &c.Sport, &c.League, &c.HomeTeam, &c.AwayTeam,
			&c.MatchDate, &c.PredictedOutcome, &probabilities, &odds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(probabilities, &c.Probabilities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal probabilities: %w", err)
		}
		if err := json.Unmarshal(odds, &c.Odds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal odds: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// SaveResult records the realized outcome of a match
func (r *PostgresMatchRepository) SaveResult(ctx context.Context, matchID string, outcome models.Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("invalid outcome %q for match %s", outcome, matchID)
	}

	query := `
		INSERT INTO match_results (match_id, outcome, recorded_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (match_id) DO UPDATE SET outcome = EXCLUDED.outcome, recorded_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, matchID, outcome); err != nil {
		return fmt.Errorf("failed to save match result: %w", err)
	}
	return nil
}

// GetResult retrieves the realized outcome of a match; ErrNotFound when the
// result is not yet recorded
func (r *PostgresMatchRepository) GetResult(ctx context.Context, matchID string) (models.Outcome, error) {
	query := `SELECT outcome FROM match_results WHERE match_id = $1`

	var outcome models.Outcome
	err := r.db.QueryRow(ctx, query, matchID).Scan(&outcome)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OutcomeUnknown, models.ErrNotFound
	}
	if err != nil {
		return models.OutcomeUnknown, fmt.Errorf("failed to get match result: %w", err)
	}
	return outcome, nil
}
