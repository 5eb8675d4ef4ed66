// Package backtest replays the pick-parlay-stake pipeline over historical
// data, period by period, and aggregates performance metrics.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/models"
	"github.com/yourusername/value-parlay/internal/parlay"
	"github.com/yourusername/value-parlay/internal/picks"
	"github.com/yourusername/value-parlay/internal/stake"
)

// Engine replays historical decision cycles. Cycles run strictly in
// ascending date order and single-threaded: each period's stake depends on
// the exact ending bankroll of the previous one, and future information
// must never leak backward.
type Engine struct {
	config      Config
	evaluator   *picks.Evaluator
	diversifier *picks.Diversifier
	optimizer   *parlay.Optimizer
	sizer       *stake.Sizer
	predictions datasource.PredictionProvider
	truth       datasource.GroundTruthProvider
	logger      *logrus.Logger
}

// NewEngine creates a simulation engine. The configuration must already
// be validated; NewEngine re-checks it to fail fast on malformed input.
func NewEngine(cfg Config, predictions datasource.PredictionProvider, truth datasource.GroundTruthProvider, logger *logrus.Logger) (*Engine, error) {
	if predictions == nil {
		return nil, fmt.Errorf("prediction provider is required")
	}
	if truth == nil {
		return nil, fmt.Errorf("ground truth provider is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}

	return &Engine{
		config:      cfg,
		evaluator:   picks.NewEvaluator(cfg.Criteria, logger),
		diversifier: picks.NewDiversifier(cfg.MaxPicksPerLeague, logger),
		optimizer:   parlay.NewOptimizer(cfg.Constraints, logger),
		sizer:       stake.NewSizer(cfg.Stake, logger),
		predictions: predictions,
		truth:       truth,
		logger:      logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run replays every period between the configured start and end dates and
// returns the aggregated result. Cancellation is honored between periods
// only: on a cancelled context the partial result built so far is returned
// together with the context error, and the ledger inside it is valid.
func (e *Engine) Run(ctx context.Context) (*models.BacktestResult, error) {
	e.logger.WithFields(logrus.Fields{
		"start":    e.config.StartDate.Format("2006-01-02"),
		"end":      e.config.EndDate.Format("2006-01-02"),
		"bankroll": e.config.InitialBankroll,
	}).Info("Starting backtest run")

	state := NewState(e.config.InitialBankroll)

	var interrupted error
	for date := e.config.StartDate; !date.After(e.config.EndDate); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}
		if err := e.processPeriod(ctx, date, state); err != nil {
			return nil, err
		}
	}

	result := Aggregate(state, e.config)
	if interrupted != nil {
		e.logger.WithField("periods_completed", len(state.Bankroll.History)).
			Warn("Backtest interrupted, returning partial result")
		return result, interrupted
	}
	return result, nil
}

// processPeriod runs one decision cycle for a single historical date.
// Business rejections (no picks, no valid parlay, zero stake) become
// zero-bet days, never errors.
func (e *Engine) processPeriod(ctx context.Context, date time.Time, state *State) error {
	candidates, err := e.predictions.CandidatesForDate(ctx, date)
	if err != nil {
		if errors.Is(err, models.ErrDataUnavailable) {
			e.zeroBetDay(date, state, "prediction data unavailable")
			return nil
		}
		return fmt.Errorf("loading predictions for %s: %w", date.Format("2006-01-02"), err)
	}

	accepted := e.evaluator.SelectPicks(candidates)
	diversified := e.diversifier.Diversify(accepted)

	if len(diversified) < e.config.Constraints.MinPicks {
		e.zeroBetDay(date, state, "not enough accepted picks")
		return nil
	}

	best := e.optimizer.BuildBest(ctx, diversified)
	if best == nil {
		e.zeroBetDay(date, state, "no valid parlay")
		return nil
	}

	bankroll := state.Bankroll.Current
	rec := e.sizer.Recommend(best.CombinedProbability, best.TotalOdds, bankroll)
	if !rec.IsBet() {
		e.zeroBetDay(date, state, "zero stake recommended")
		return nil
	}
	if rec.RecommendedStake > bankroll {
		e.logger.WithFields(logrus.Fields{
			"stake":    rec.RecommendedStake,
			"bankroll": bankroll,
		}).Warn("Stake exceeds bankroll, skipping bet")
		e.zeroBetDay(date, state, "stake exceeds bankroll")
		return nil
	}

	bet := e.settle(ctx, date, best, rec.RecommendedStake, bankroll)
	state.RecordBet(bet)
	state.RecordDay(date, bet.Profit)

	e.logger.WithFields(logrus.Fields{
		"date":       date.Format("2006-01-02"),
		"legs":       len(bet.Legs),
		"stake":      bet.Stake,
		"total_odds": fmt.Sprintf("%.2f", bet.TotalOdds),
		"result":     bet.Result,
		"bankroll":   state.Bankroll.Current,
	}).Info("Bet settled")

	return nil
}

// settle resolves a parlay against ground truth. The parlay wins iff every
// leg's realized outcome equals its prediction; a leg with unknown ground
// truth settles the whole parlay as a loss (conservative policy).
func (e *Engine) settle(ctx context.Context, date time.Time, p *models.Parlay, stakeAmount, bankrollBefore float64) models.BetRecord {
	won := true
	for _, leg := range p.Picks {
		outcome, known, err := e.truth.Result(ctx, leg.MatchID)
		if err != nil || !known {
			e.logger.WithField("match_id", leg.MatchID).
				Debug("Ground truth missing, settling leg as loss")
			won = false
			break
		}
		if outcome != leg.PredictedOutcome {
			won = false
			break
		}
	}

	profit := -stakeAmount
	result := models.BetResultLoss
	if won {
		profit = stakeAmount * (p.TotalOdds - 1.0)
		result = models.BetResultWin
	}

	settledAt := date
	return models.BetRecord{
		ID:             uuid.New(),
		Date:           date,
		Stake:          stakeAmount,
		TotalOdds:      p.TotalOdds,
		Probability:    p.CombinedProbability,
		Legs:           p.Picks,
		Result:         result,
		Profit:         profit,
		BankrollBefore: bankrollBefore,
		PlacedAt:       date,
		SettledAt:      &settledAt,
	}
}

func (e *Engine) zeroBetDay(date time.Time, state *State, reason string) {
	state.ZeroBetDays++
	state.RecordDay(date, 0)
	e.logger.WithFields(logrus.Fields{
		"date":   date.Format("2006-01-02"),
		"reason": reason,
	}).Debug("Zero-bet day")
}
