package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/value-parlay/internal/config"
	"github.com/yourusername/value-parlay/internal/parlay"
	"github.com/yourusername/value-parlay/internal/picks"
	"github.com/yourusername/value-parlay/internal/stake"
)

// Config carries everything one simulation run needs: the date range,
// the starting bankroll and the immutable threshold sets for each
// component. Built once, validated before the first period runs.
type Config struct {
	StartDate         time.Time
	EndDate           time.Time
	InitialBankroll   float64
	OutputPath        string
	Criteria          picks.Criteria
	MaxPicksPerLeague int
	Constraints       parlay.Constraints
	Stake             stake.Config
}

// FromConfig converts app config to a backtest config
func FromConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is required")
	}

	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end date: %w", err)
	}

	bt := Config{
		StartDate:         start,
		EndDate:           end,
		InitialBankroll:   cfg.Backtest.InitialBankroll,
		OutputPath:        cfg.Backtest.OutputPath,
		Criteria:          cfg.PickCriteria(),
		MaxPicksPerLeague: cfg.Picks.MaxPicksPerLeague,
		Constraints:       cfg.ParlayConstraints(),
		Stake:             cfg.StakeConfig(),
	}

	return bt, bt.Validate()
}

// Validate fails fast on malformed configuration, before any simulation
// starts
func (c Config) Validate() error {
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start date must not be after end date")
	}
	if c.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if c.Constraints.MinPicks <= 0 {
		return fmt.Errorf("min picks must be positive")
	}
	if c.Constraints.MinPicks > c.Constraints.MaxPicks {
		return fmt.Errorf("min picks %d exceeds max picks %d",
			c.Constraints.MinPicks, c.Constraints.MaxPicks)
	}
	if c.Criteria.MinOdds >= c.Criteria.MaxOdds {
		return fmt.Errorf("min odds %.2f must be below max odds %.2f",
			c.Criteria.MinOdds, c.Criteria.MaxOdds)
	}
	if c.Constraints.MinTotalOdds >= c.Constraints.MaxTotalOdds {
		return fmt.Errorf("min total odds %.2f must be below max total odds %.2f",
			c.Constraints.MinTotalOdds, c.Constraints.MaxTotalOdds)
	}
	if c.Stake.KellyFraction <= 0 || c.Stake.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0, 1]")
	}
	if c.Stake.MaxBetPct <= 0 || c.Stake.MaxBetPct > 1 {
		return fmt.Errorf("max bet percentage must be in (0, 1]")
	}
	return nil
}
