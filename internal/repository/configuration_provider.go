package repository

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/config"
)

// ConfigurationProvider merges database-stored parameter overrides on top
// of the file configuration. Operators can tune thresholds without a
// redeploy; unknown or malformed values are logged and skipped.
type ConfigurationProvider struct {
	params ParameterRepository
	logger *logrus.Logger
}

// NewConfigurationProvider creates a configuration provider
func NewConfigurationProvider(params ParameterRepository, logger *logrus.Logger) *ConfigurationProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConfigurationProvider{params: params, logger: logger}
}

// Apply overlays stored parameters onto cfg and returns the number applied
func (p *ConfigurationProvider) Apply(ctx context.Context, cfg *config.Config) (int, error) {
	stored, err := p.params.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for key, value := range stored {
		if p.applyOne(cfg, key, value) {
			applied++
		} else {
			p.logger.WithFields(logrus.Fields{
				"key":   key,
				"value": value,
			}).Warn("Skipping unknown or malformed parameter override")
		}
	}

	if applied > 0 {
		p.logger.WithField("count", applied).Info("Applied parameter overrides from database")
	}
	return applied, nil
}

func (p *ConfigurationProvider) applyOne(cfg *config.Config, key, value string) bool {
	setFloat := func(dst *float64) bool {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		*dst = f
		return true
	}
	setInt := func(dst *int) bool {
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		*dst = n
		return true
	}

	switch key {
	case "picks.min_probability":
		return setFloat(&cfg.Picks.MinProbability)
	case "picks.min_edge":
		return setFloat(&cfg.Picks.MinEdge)
	case "picks.min_odds":
		return setFloat(&cfg.Picks.MinOdds)
	case "picks.max_odds":
		return setFloat(&cfg.Picks.MaxOdds)
	case "picks.max_picks_per_league":
		return setInt(&cfg.Picks.MaxPicksPerLeague)
	case "parlay.min_picks":
		return setInt(&cfg.Parlay.MinPicks)
	case "parlay.max_picks":
		return setInt(&cfg.Parlay.MaxPicks)
	case "parlay.min_total_odds":
		return setFloat(&cfg.Parlay.MinTotalOdds)
	case "parlay.max_total_odds":
		return setFloat(&cfg.Parlay.MaxTotalOdds)
	case "parlay.min_combined_probability":
		return setFloat(&cfg.Parlay.MinCombinedProbability)
	case "staking.kelly_fraction":
		return setFloat(&cfg.Staking.KellyFraction)
	case "staking.max_bet_pct":
		return setFloat(&cfg.Staking.MaxBetPct)
	case "staking.min_edge_floor":
		return setFloat(&cfg.Staking.MinEdgeFloor)
	case "staking.min_bankroll":
		return setFloat(&cfg.Staking.MinBankroll)
	default:
		return false
	}
}
