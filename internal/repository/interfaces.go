// Package repository provides data access layers over PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/value-parlay/internal/models"
)

// MatchRepository defines the interface for match and result data access
type MatchRepository interface {
	Upsert(ctx context.Context, candidate *models.Candidate) error
	UpsertBatch(ctx context.Context, candidates []models.Candidate) error
	GetByDate(ctx context.Context, date time.Time) ([]models.Candidate, error)
	SaveResult(ctx context.Context, matchID string, outcome models.Outcome) error
	GetResult(ctx context.Context, matchID string) (models.Outcome, error)
}

// BetRepository defines the interface for bet ledger access
type BetRepository interface {
	Create(ctx context.Context, bet *models.BetRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BetRecord, error)
	GetPending(ctx context.Context) ([]*models.BetRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BetRecord, error)
	Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit, bankrollAfter float64, settledAt time.Time) error
}

// BankrollRepository defines the interface for bankroll snapshot access
type BankrollRepository interface {
	Latest(ctx context.Context) (*models.BalanceSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot models.BalanceSnapshot) error
	GetHistory(ctx context.Context, start, end time.Time) ([]models.BalanceSnapshot, error)
}

// BacktestResultRepository defines backtest result persistence
type BacktestResultRepository interface {
	Save(ctx context.Context, result *models.BacktestResult) error
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestResult, error)
}

// ParameterRepository defines the interface for the runtime parameter store.
// Parameters stored here override the file configuration.
type ParameterRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}
