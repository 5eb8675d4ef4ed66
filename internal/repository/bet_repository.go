package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a bet with its legs in a single transaction
func (r *PostgresBetRepository) Create(ctx context.Context, bet *models.BetRecord) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		betQuery := `
			INSERT INTO bets (id, bet_date, stake, total_odds, combined_probability,
			                  result, profit, bankroll_before, bankroll_after, placed_at, settled_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.Exec(ctx, betQuery,
			bet.ID, bet.Date, bet.Stake, bet.TotalOdds, bet.Probability,
			bet.Result, bet.Profit, bet.BankrollBefore, bet.BankrollAfter, bet.PlacedAt, bet.SettledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create bet: %w", err)
		}

		legQuery := `
			INSERT INTO bet_legs (bet_id, match_id, sport, league, home_team, away_team,
			                      predicted_outcome, probability, odds, edge)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		for _, leg := range bet.Legs {
			_, err := tx.Exec(ctx, legQuery,
				bet.ID, leg.MatchID, leg.Sport, leg.League, leg.HomeTeam, leg.AwayTeam,
				leg.PredictedOutcome, leg.Probability(), leg.SelectedOdds(), leg.Edge,
			)
			if err != nil {
				return fmt.Errorf("failed to create bet leg: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a bet and its legs
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BetRecord, error) {
	query := `
		SELECT id, bet_date, stake, total_odds, combined_probability,
		       result, profit, bankroll_before, bankroll_after, placed_at, settled_at
		FROM bets WHERE id = $1
	`

	bet := &models.BetRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bet.ID, &bet.Date, &bet.Stake, &bet.TotalOdds, &bet.Probability,
		&bet.Result, &bet.Profit, &bet.BankrollBefore, &bet.BankrollAfter, &bet.PlacedAt, &bet.SettledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	legs, err := r.legsForBet(ctx, bet.ID)
	if err != nil {
		return nil, err
	}
	bet.Legs = legs

	return bet, nil
}

// GetPending retrieves bets awaiting settlement, oldest first
func (r *PostgresBetRepository) GetPending(ctx context.Context) ([]*models.BetRecord, error) {
	query := `
		SELECT id, bet_date, stake, total_odds, combined_probability,
		       result, profit, bankroll_before, bankroll_after, placed_at, settled_at
		FROM bets
		WHERE result = 'pending'
		ORDER BY placed_at ASC
	`
	return r.queryBets(ctx, query)
}

// GetByDateRange retrieves bets placed inside [start, end], oldest first
func (r *PostgresBetRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BetRecord, error) {
	query := `
		SELECT id, bet_date, stake, total_odds, combined_probability,
		       result, profit, bankroll_before, bankroll_after, placed_at, settled_at
		FROM bets
		WHERE bet_date >= $1 AND bet_date <= $2
		ORDER BY placed_at ASC
	`
	return r.queryBets(ctx, query, start, end)
}

// Settle records the terminal result of a bet
func (r *PostgresBetRepository) Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit, bankrollAfter float64, settledAt time.Time) error {
	query := `
		UPDATE bets SET result = $2, profit = $3, bankroll_after = $4, settled_at = $5
		WHERE id = $1
	`

	commandTag, err := r.db.Exec(ctx, query, id, result, profit, bankrollAfter, settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresBetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*models.BetRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.BetRecord
	for rows.Next() {
		bet := &models.BetRecord{}
		err := rows.Scan(
			&bet.ID, &bet.Date, &bet.Stake, &bet.TotalOdds, &bet.Probability,
			&bet.Result, &bet.Profit, &bet.BankrollBefore, &bet.BankrollAfter, &bet.PlacedAt, &bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bet := range bets {
		legs, err := r.legsForBet(ctx, bet.ID)
		if err != nil {
			return nil, err
		}
		bet.Legs = legs
	}

	return bets, nil
}

func (r *PostgresBetRepository) legsForBet(ctx context.Context, betID uuid.UUID) ([]models.EvaluatedPick, error) {
	query := `
		SELECT match_id, sport, league, home_team, away_team,
		       predicted_outcome, probability, odds, edge
		FROM bet_legs
		WHERE bet_id = $1
		ORDER BY match_id ASC
	`

	rows, err := r.db.Query(ctx, query, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet legs: %w", err)
	}
	defer rows.Close()

	var legs []models.EvaluatedPick
	for rows.Next() {
		var (
			leg         models.EvaluatedPick
			probability float64
			odds        float64
		)
		err := rows.Scan(
			&leg.MatchID, &leg.Sport, &leg.League, &leg.HomeTeam, &leg.AwayTeam,
			&leg.PredictedOutcome, &probability, &odds, &leg.Edge,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet leg: %w", err)
		}
		leg.Probabilities = map[models.Outcome]float64{leg.PredictedOutcome: probability}
		leg.Odds = map[models.Outcome]float64{leg.PredictedOutcome: odds}
		leg.Accepted = true
		legs = append(legs, leg)
	}

	return legs, rows.Err()
}
