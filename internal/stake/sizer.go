// Package stake converts a chosen bet's edge into a bounded stake via
// the fractional Kelly criterion.
package stake

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
)

const (
	strategyKelly = "fractional_kelly"

	// Picks with a genuinely strong edge are floored at 0.5% of bankroll
	// so the fractional Kelly output never degenerates into dust bets.
	strongEdgeThreshold = 0.05
	minStakePctOfBank   = 0.005

	// Absolute floor in currency units.
	absoluteMinStake = 1.0
)

// Config holds the sizing parameters
type Config struct {
	KellyFraction float64
	MaxBetPct     float64
	MinEdgeFloor  float64
	MinBankroll   float64
}

// Sizer computes stake recommendations from edge, odds and bankroll
type Sizer struct {
	config Config
	logger *logrus.Logger
}

// NewSizer creates a sizer with the given configuration
func NewSizer(config Config, logger *logrus.Logger) *Sizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Sizer{config: config, logger: logger}
}

// FullKelly returns the bankroll fraction maximizing long-run geometric
// growth: f = (b*p - q) / b with b = odds-1, q = 1-p. Zero when the inputs
// carry no positive expectation.
func FullKelly(probability, odds float64) float64 {
	if probability <= 0 || probability >= 1 {
		return 0
	}
	if odds <= 1 {
		return 0
	}

	b := odds - 1.0
	q := 1.0 - probability
	kelly := (b*probability - q) / b
	if kelly <= 0 {
		return 0
	}
	return kelly
}

// Recommend sizes a bet for the given win probability, decimal odds and
// bankroll. A zero recommended stake means no bet; warnings are advisory.
func (s *Sizer) Recommend(probability, odds, bankroll float64) models.StakeRecommendation {
	rec := models.StakeRecommendation{Strategy: strategyKelly}
	if bankroll <= 0 {
		return rec
	}

	edge := probability*odds - 1.0
	rec.Edge = edge
	if edge < s.config.MinEdgeFloor {
		s.logger.WithField("edge", fmt.Sprintf("%.2f%%", edge*100)).
			Debug("Edge below floor, no bet recommended")
		return rec
	}

	fullKelly := FullKelly(probability, odds)
	rec.FullKelly = fullKelly
	if fullKelly <= 0 {
		s.logger.Debug("Non-positive Kelly, no bet recommended")
		return rec
	}

	raw := bankroll * fullKelly * s.config.KellyFraction
	rec.CalculatedStake = roundCurrency(raw)

	stake := raw
	maxStake := bankroll * s.config.MaxBetPct
	if stake > maxStake {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf(
			"stake %.2f capped at max bet %.2f (%.1f%% of bankroll)",
			stake, maxStake, s.config.MaxBetPct*100))
		stake = maxStake
	}

	if minStake := bankroll * minStakePctOfBank; stake < minStake && edge > strongEdgeThreshold {
		stake = minStake
	}
	if stake < absoluteMinStake {
		stake = absoluteMinStake
	}

	stake = roundCurrency(stake)
	rec.RecommendedStake = stake
	rec.StakePercentage = stake / bankroll * 100
	rec.PotentialReturn = roundCurrency(stake * odds)
	rec.PotentialProfit = roundCurrency(stake * (odds - 1.0))

	if s.config.MinBankroll > 0 && bankroll < s.config.MinBankroll {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf(
			"bankroll %.2f below configured minimum %.2f", bankroll, s.config.MinBankroll))
	}

	s.logger.WithFields(logrus.Fields{
		"probability": fmt.Sprintf("%.1f%%", probability*100),
		"odds":        fmt.Sprintf("%.2f", odds),
		"edge":        fmt.Sprintf("%.1f%%", edge*100),
		"full_kelly":  fmt.Sprintf("%.1f%%", fullKelly*100),
		"stake":       stake,
		"stake_pct":   fmt.Sprintf("%.1f%%", rec.StakePercentage),
	}).Debug("Kelly stake calculated")

	return rec
}

// roundCurrency rounds to currency precision (2 decimal places)
func roundCurrency(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
