// Package picks evaluates prediction candidates against the acceptance
// thresholds and caps per-league concentration.
package picks

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
)

// referenceStake is the stake used to express expected value per bet
const referenceStake = 100.0

// Criteria is the immutable threshold set a pick must clear
type Criteria struct {
	MinProbability float64
	MinEdge        float64
	MinOdds        float64
	MaxOdds        float64
}

// Evaluator scores candidates against a fixed criteria set
type Evaluator struct {
	criteria Criteria
	logger   *logrus.Logger
}

// NewEvaluator creates an evaluator with the given criteria
func NewEvaluator(criteria Criteria, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{criteria: criteria, logger: logger}
}

// ImpliedProbability converts decimal odds to the market's implied probability
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1.0 / odds
}

// Edge is the model probability minus the market's implied probability
func Edge(probability, odds float64) float64 {
	return probability - ImpliedProbability(odds)
}

// ExpectedValue is the EV of a bet at the given stake:
// p*stake*(odds-1) - (1-p)*stake
func ExpectedValue(probability, odds, stake float64) float64 {
	winAmount := stake * (odds - 1.0)
	lossAmount := stake
	return probability*winAmount - (1.0-probability)*lossAmount
}

// Evaluate scores one candidate. It is pure and total: business rejection
// is expressed via Accepted=false with ordered rejection reasons, never an
// error. Missing or zero odds for the predicted outcome is a rejection.
func (e *Evaluator) Evaluate(candidate models.Candidate) models.EvaluatedPick {
	pick := models.EvaluatedPick{Candidate: candidate}

	odds := candidate.PredictedOdds()
	probability := candidate.PredictedProbability()

	if odds <= 0 {
		pick.RejectionReasons = []string{"odds not available for predicted outcome"}
		return pick
	}

	pick.ImpliedProbability = ImpliedProbability(odds)
	pick.Edge = Edge(probability, odds)
	pick.EdgePercentage = pick.Edge * 100
	pick.ExpectedValue = ExpectedValue(probability, odds, referenceStake)

	// All four criteria are evaluated independently so every failure can
	// be reported, not only the first one.
	var reasons []string
	if probability < e.criteria.MinProbability {
		reasons = append(reasons, fmt.Sprintf("probability %.1f%% < %.1f%%",
			probability*100, e.criteria.MinProbability*100))
	}
	if pick.Edge < e.criteria.MinEdge {
		reasons = append(reasons, fmt.Sprintf("edge %.1f%% < %.1f%%",
			pick.EdgePercentage, e.criteria.MinEdge*100))
	}
	if odds < e.criteria.MinOdds {
		reasons = append(reasons, fmt.Sprintf("odds %.2f < %.2f", odds, e.criteria.MinOdds))
	}
	if odds > e.criteria.MaxOdds {
		reasons = append(reasons, fmt.Sprintf("odds %.2f > %.2f", odds, e.criteria.MaxOdds))
	}

	pick.Accepted = len(reasons) == 0
	pick.RejectionReasons = reasons
	return pick
}

// SelectPicks evaluates all candidates and returns the accepted picks
// sorted by descending edge. Candidate order breaks ties, so the result is
// deterministic for identical input.
func (e *Evaluator) SelectPicks(candidates []models.Candidate) []models.EvaluatedPick {
	accepted := make([]models.EvaluatedPick, 0, len(candidates))

	for _, candidate := range candidates {
		pick := e.Evaluate(candidate)
		if pick.Accepted {
			accepted = append(accepted, pick)
			e.logger.WithFields(logrus.Fields{
				"match":   pick.Label(),
				"league":  pick.League,
				"outcome": pick.PredictedOutcome,
				"edge":    fmt.Sprintf("%.1f%%", pick.EdgePercentage),
			}).Info("Value found")
		} else {
			e.logger.WithFields(logrus.Fields{
				"match":   pick.Label(),
				"reasons": pick.RejectionReasons,
			}).Debug("No value")
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Edge > accepted[j].Edge
	})

	return accepted
}
