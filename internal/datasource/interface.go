// Package datasource defines the collaborator boundaries the betting core
// consumes: prediction and ground-truth providers, plus the transport
// clients that back them.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/value-parlay/internal/models"
)

// PredictionProvider supplies the candidates for one decision cycle. A day
// with no coverage returns an empty slice; a provider that cannot answer
// at all returns models.ErrDataUnavailable wrapped in its error.
type PredictionProvider interface {
	CandidatesForDate(ctx context.Context, date time.Time) ([]models.Candidate, error)
}

// OddsProvider supplies current bookmaker odds keyed by match id, used to
// refresh model-supplied odds just before evaluation.
type OddsProvider interface {
	OddsForDate(ctx context.Context, sport string, date time.Time) (map[string]map[models.Outcome]float64, error)
}

// GroundTruthProvider resolves realized outcomes during backtests.
// known=false means the result is not recorded; callers decide the policy
// (the simulator settles unknown legs as losses).
type GroundTruthProvider interface {
	Result(ctx context.Context, matchID string) (outcome models.Outcome, known bool, err error)
}
