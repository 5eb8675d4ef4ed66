// Package parlay searches combinations of evaluated picks for the best
// risk-bounded combined bet.
package parlay

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
	"github.com/yourusername/value-parlay/internal/picks"
)

const (
	// Correlation penalty weights for legs sharing a league or a team.
	leaguePenaltyPerExtra = 0.02
	teamPenaltyPerExtra   = 0.015
	maxCorrelationPenalty = 0.15
	minCorrelationFactor  = 0.85

	// Score weighting between edge and EV per 100 units staked.
	edgeWeight = 0.6
	evWeight   = 0.4

	// How often the search checks for context cancellation.
	cancelCheckInterval = 1024
)

// Constraints bound the combination search
type Constraints struct {
	MinPicks               int
	MaxPicks               int
	MinTotalOdds           float64
	MaxTotalOdds           float64
	MinCombinedProbability float64
}

// Optimizer finds the maximum-scoring valid combination of picks
type Optimizer struct {
	constraints Constraints
	logger      *logrus.Logger
}

// NewOptimizer creates an optimizer for the given constraints
func NewOptimizer(constraints Constraints, logger *logrus.Logger) *Optimizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Optimizer{constraints: constraints, logger: logger}
}

// CorrelationFactor discounts the independence assumption for legs sharing
// a league or a team: 0.02 per extra leg in the same league plus 0.015 per
// extra appearance of the same team, penalty capped at 0.15. The factor is
// always within [0.85, 1.0].
func CorrelationFactor(legs []models.EvaluatedPick) float64 {
	leagueCounts := make(map[string]int)
	teamCounts := make(map[string]int)
	for _, leg := range legs {
		leagueCounts[leg.League]++
		teamCounts[leg.HomeTeam]++
		teamCounts[leg.AwayTeam]++
	}

	penalty := 0.0
	for _, count := range leagueCounts {
		if count > 1 {
			penalty += float64(count-1) * leaguePenaltyPerExtra
		}
	}
	for _, count := range teamCounts {
		if count > 1 {
			penalty += float64(count-1) * teamPenaltyPerExtra
		}
	}
	if penalty > maxCorrelationPenalty {
		penalty = maxCorrelationPenalty
	}

	return math.Max(minCorrelationFactor, 1.0-penalty)
}

// Evaluate computes the combined metrics for a set of legs
func Evaluate(legs []models.EvaluatedPick) models.Parlay {
	totalOdds := 1.0
	rawProbability := 1.0
	for _, leg := range legs {
		totalOdds *= leg.SelectedOdds()
		rawProbability *= leg.Probability()
	}

	factor := CorrelationFactor(legs)
	combined := rawProbability * factor
	edge := combined - picks.ImpliedProbability(totalOdds)
	ev := picks.ExpectedValue(combined, totalOdds, 100)

	return models.Parlay{
		Picks:               legs,
		NumPicks:            len(legs),
		TotalOdds:           totalOdds,
		RawProbability:      rawProbability,
		CorrelationFactor:   factor,
		CombinedProbability: combined,
		Edge:                edge,
		EdgePercentage:      edge * 100,
		ExpectedValue:       ev,
		Score:               edgeWeight*edge + evWeight*(ev/100),
	}
}

// valid checks the combination against the odds band and probability floor.
// Size bounds are enforced by the search itself.
func (o *Optimizer) valid(p models.Parlay) bool {
	if p.TotalOdds < o.constraints.MinTotalOdds || p.TotalOdds > o.constraints.MaxTotalOdds {
		return false
	}
	return p.CombinedProbability >= o.constraints.MinCombinedProbability
}

// BuildBest returns the globally maximum-scoring valid combination of the
// given picks, or nil when no combination satisfies the constraints.
// "No valid parlay" is a result, not an error.
//
// Enumeration is exponential in len(picks); the search prunes branches
// whose optimistic score bound cannot beat the best found. When ctx
// carries a deadline and it expires, the best combination found so far is
// returned instead of nothing.
func (o *Optimizer) BuildBest(ctx context.Context, candidates []models.EvaluatedPick) *models.Parlay {
	pool := distinctByMatchID(candidates)
	if len(pool) == 0 {
		return nil
	}

	maxPicks := o.constraints.MaxPicks
	if maxPicks > len(pool) {
		maxPicks = len(pool)
	}
	if o.constraints.MinPicks > maxPicks {
		return nil
	}

	search := &bestSearch{
		optimizer: o,
		pool:      pool,
		minPicks:  o.constraints.MinPicks,
		maxPicks:  maxPicks,
		bestScore: math.Inf(-1),
		ctx:       ctx,
	}
	search.run(0, nil, 1.0)

	if search.best == nil {
		o.logger.Warn("No valid parlay could be built with available picks")
		return nil
	}
	if search.interrupted {
		o.logger.Warn("Parlay search budget exhausted, returning best found so far")
	}

	o.logger.WithFields(logrus.Fields{
		"picks":      search.best.NumPicks,
		"total_odds": fmt.Sprintf("%.2f", search.best.TotalOdds),
		"edge":       fmt.Sprintf("%.2f%%", search.best.EdgePercentage),
	}).Info("Best parlay found")

	return search.best
}

// BuildDisjoint builds up to numParlays non-overlapping parlays by
// repeatedly running the search and removing the used picks.
func (o *Optimizer) BuildDisjoint(ctx context.Context, candidates []models.EvaluatedPick, numParlays int) []*models.Parlay {
	available := distinctByMatchID(candidates)
	parlays := make([]*models.Parlay, 0, numParlays)
	used := make(map[string]bool)

	for len(parlays) < numParlays {
		remaining := available[:0:0]
		for _, pick := range available {
			if !used[pick.MatchID] {
				remaining = append(remaining, pick)
			}
		}
		if len(remaining) < o.constraints.MinPicks {
			break
		}

		best := o.BuildBest(ctx, remaining)
		if best == nil {
			break
		}
		parlays = append(parlays, best)
		for _, pick := range best.Picks {
			used[pick.MatchID] = true
		}
	}

	return parlays
}

// bestSearch holds the state of one branch-and-bound run
type bestSearch struct {
	optimizer   *Optimizer
	pool        []models.EvaluatedPick
	minPicks    int
	maxPicks    int
	best        *models.Parlay
	bestScore   float64
	nodes       int
	interrupted bool
	ctx         context.Context
}

func (s *bestSearch) run(start int, combo []models.EvaluatedPick, rawProbability float64) {
	if s.interrupted {
		return
	}
	s.nodes++
	if s.nodes%cancelCheckInterval == 0 && s.ctx.Err() != nil {
		s.interrupted = true
		return
	}

	if len(combo) >= s.minPicks {
		parlay := Evaluate(combo)
		if s.optimizer.valid(parlay) && parlay.Score > s.bestScore {
			s.bestScore = parlay.Score
			kept := parlay
			kept.Picks = append([]models.EvaluatedPick(nil), combo...)
			s.best = &kept
		}
	}
	if len(combo) == s.maxPicks {
		return
	}

	// Optimistic bound for any extension of this partial combination:
	// the combined probability can only shrink from here, so
	// edge < q and EV/100 = q*odds - 1 <= q*maxTotalOdds - 1.
	if s.best != nil && scoreUpperBound(rawProbability, s.optimizer.constraints.MaxTotalOdds) <= s.bestScore {
		return
	}

	for i := start; i < len(s.pool); i++ {
		leg := s.pool[i]
		s.run(i+1, append(combo, leg), rawProbability*leg.Probability())
	}
}

func scoreUpperBound(rawProbability, maxTotalOdds float64) float64 {
	evBound := rawProbability*maxTotalOdds - 1
	if evBound < 0 {
		evBound = 0
	}
	return edgeWeight*rawProbability + evWeight*evBound
}

// distinctByMatchID drops later picks that repeat a match id, keeping the
// first (highest-edge) occurrence so every parlay has pairwise-distinct legs
func distinctByMatchID(input []models.EvaluatedPick) []models.EvaluatedPick {
	seen := make(map[string]bool, len(input))
	out := make([]models.EvaluatedPick, 0, len(input))
	for _, pick := range input {
		if seen[pick.MatchID] {
			continue
		}
		seen[pick.MatchID] = true
		out = append(out, pick)
	}
	return out
}
