package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/value-parlay/internal/models"
	"github.com/yourusername/value-parlay/internal/repository"
)

// RepositoryHistoryProvider serves historical candidates and realized
// outcomes from the database, for backtests over previously ingested data.
type RepositoryHistoryProvider struct {
	matches repository.MatchRepository
}

// NewRepositoryHistoryProvider creates a provider backed by the match repository
func NewRepositoryHistoryProvider(matches repository.MatchRepository) *RepositoryHistoryProvider {
	return &RepositoryHistoryProvider{matches: matches}
}

// CandidatesForDate returns every stored candidate for the given day
func (p *RepositoryHistoryProvider) CandidatesForDate(ctx context.Context, date time.Time) ([]models.Candidate, error) {
	return p.matches.GetByDate(ctx, date)
}

// Result returns the realized outcome of a match, known=false when the
// result was never recorded
func (p *RepositoryHistoryProvider) Result(ctx context.Context, matchID string) (models.Outcome, bool, error) {
	outcome, err := p.matches.GetResult(ctx, matchID)
	if errors.Is(err, models.ErrNotFound) {
		return models.OutcomeUnknown, false, nil
	}
	if err != nil {
		return models.OutcomeUnknown, false, err
	}
	return outcome, true, nil
}
