// Package bot runs the live once-per-day decision cycle: fetch candidates,
// evaluate, diversify, optimize, size, persist and notify.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/config"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/metrics"
	"github.com/yourusername/value-parlay/internal/models"
	"github.com/yourusername/value-parlay/internal/notify"
	"github.com/yourusername/value-parlay/internal/parlay"
	"github.com/yourusername/value-parlay/internal/picks"
	"github.com/yourusername/value-parlay/internal/repository"
	"github.com/yourusername/value-parlay/internal/stake"
)

// Repositories holds the repository dependencies of the live cycle
type Repositories struct {
	Match    repository.MatchRepository
	Bet      repository.BetRepository
	Bankroll repository.BankrollRepository
}

// Orchestrator coordinates one decision cycle per day. Settlement of
// earlier bets runs first so the bankroll feeding the stake calculation
// is current.
type Orchestrator struct {
	cfg         *config.Config
	evaluator   *picks.Evaluator
	diversifier *picks.Diversifier
	optimizer   *parlay.Optimizer
	sizer       *stake.Sizer
	predictions datasource.PredictionProvider
	odds        datasource.OddsProvider
	repos       Repositories
	notifier    notify.Notifier
	logger      *logrus.Logger
}

// NewOrchestrator creates the live cycle orchestrator. odds may be nil,
// in which case the model-supplied odds are used as-is.
func NewOrchestrator(cfg *config.Config, predictions datasource.PredictionProvider, odds datasource.OddsProvider, repos Repositories, notifier notify.Notifier, logger *logrus.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if predictions == nil {
		return nil, fmt.Errorf("prediction provider is required")
	}
	if repos.Match == nil || repos.Bet == nil || repos.Bankroll == nil {
		return nil, fmt.Errorf("all repositories are required")
	}
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Orchestrator{
		cfg:         cfg,
		evaluator:   picks.NewEvaluator(cfg.PickCriteria(), logger),
		diversifier: picks.NewDiversifier(cfg.Picks.MaxPicksPerLeague, logger),
		optimizer:   parlay.NewOptimizer(cfg.ParlayConstraints(), logger),
		sizer:       stake.NewSizer(cfg.StakeConfig(), logger),
		predictions: predictions,
		odds:        odds,
		repos:       repos,
		notifier:    notifier,
		logger:      logger,
	}, nil
}

// RunOnce executes a single decision cycle for the given date
func (o *Orchestrator) RunOnce(ctx context.Context, date time.Time) error {
	o.logger.WithField("date", date.Format("2006-01-02")).Info("Starting decision cycle")

	if err := o.settlePending(ctx); err != nil {
		return fmt.Errorf("settling pending bets: %w", err)
	}

	bankroll, err := o.currentBankroll(ctx)
	if err != nil {
		return fmt.Errorf("loading bankroll: %w", err)
	}
	metrics.UpdateBankroll(bankroll)

	candidates, err := o.predictions.CandidatesForDate(ctx, date)
	if err != nil {
		if errors.Is(err, models.ErrDataUnavailable) {
			o.zeroBetDay(ctx, date, bankroll, "prediction data unavailable")
			return nil
		}
		return fmt.Errorf("loading candidates: %w", err)
	}

	candidates = o.refreshOdds(ctx, date, candidates)

	if err := o.repos.Match.UpsertBatch(ctx, candidates); err != nil {
		// persistence of raw candidates is best effort, the cycle goes on
		o.logger.WithError(err).Warn("Failed to persist candidates")
	}

	metrics.RecordCandidatesEvaluated(len(candidates))
	accepted := o.evaluator.SelectPicks(candidates)
	for range accepted {
		metrics.RecordPickAccepted()
	}

	diversified := o.diversifier.Diversify(accepted)
	if len(diversified) < o.cfg.Parlay.MinPicks {
		o.zeroBetDay(ctx, date, bankroll, "not enough accepted picks")
		return nil
	}

	searchCtx := ctx
	if timeout := o.cfg.ParlayTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	searchStart := time.Now()
	best := o.optimizer.BuildBest(searchCtx, diversified)
	metrics.RecordOptimizerDuration(time.Since(searchStart).Seconds())
	if best == nil {
		o.zeroBetDay(ctx, date, bankroll, "no valid parlay")
		return nil
	}
	metrics.RecordParlayBuilt(best.Edge, best.TotalOdds)

	rec := o.sizer.Recommend(best.CombinedProbability, best.TotalOdds, bankroll)
	if !rec.IsBet() {
		o.zeroBetDay(ctx, date, bankroll, "zero stake recommended")
		return nil
	}
	if rec.RecommendedStake > bankroll {
		// the absolute stake floor can exceed a depleted bankroll
		o.logger.WithFields(logrus.Fields{
			"stake":    rec.RecommendedStake,
			"bankroll": bankroll,
		}).Warn("Stake exceeds bankroll, skipping bet")
		o.zeroBetDay(ctx, date, bankroll, "stake exceeds bankroll")
		return nil
	}

	bet := models.BetRecord{
		ID:             uuid.New(),
		Date:           date,
		Stake:          rec.RecommendedStake,
		TotalOdds:      best.TotalOdds,
		Probability:    best.CombinedProbability,
		Legs:           best.Picks,
		Result:         models.BetResultPending,
		BankrollBefore: bankroll,
		BankrollAfter:  bankroll,
		PlacedAt:       time.Now().UTC(),
	}
	if err := o.repos.Bet.Create(ctx, &bet); err != nil {
		return fmt.Errorf("persisting bet: %w", err)
	}

	o.snapshot(ctx, date, bankroll, 0)
	metrics.RecordBetPlaced(rec.RecommendedStake / bankroll)

	o.logger.WithFields(logrus.Fields{
		"bet_id":     bet.ID,
		"legs":       len(bet.Legs),
		"stake":      bet.Stake,
		"total_odds": fmt.Sprintf("%.2f", bet.TotalOdds),
	}).Info("Bet placed")

	if err := o.notifier.NotifyParlay(ctx, best, &rec); err != nil {
		// advisory only
		o.logger.WithError(err).Warn("Notification failed")
	}

	return nil
}

// settlePending resolves earlier bets whose legs all have recorded
// results. Bets with any leg still unknown stay pending.
func (o *Orchestrator) settlePending(ctx context.Context) error {
	pending, err := o.repos.Bet.GetPending(ctx)
	if err != nil {
		return err
	}

	for _, bet := range pending {
		won, settled, err := o.resolveLegs(ctx, bet)
		if err != nil {
			return err
		}
		if !settled {
			continue
		}

		profit := -bet.Stake
		result := models.BetResultLoss
		if won {
			profit = bet.Stake * (bet.TotalOdds - 1.0)
			result = models.BetResultWin
		}

		bankroll, err := o.currentBankroll(ctx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := o.repos.Bet.Settle(ctx, bet.ID, result, profit, bankroll+profit, now); err != nil {
			return err
		}
		o.snapshot(ctx, now, bankroll+profit, profit)
		metrics.RecordBetSettled(string(result))
		metrics.UpdateBankroll(bankroll + profit)

		o.logger.WithFields(logrus.Fields{
			"bet_id": bet.ID,
			"result": result,
			"profit": profit,
		}).Info("Bet settled")
	}

	return nil
}

// refreshOdds overlays current bookmaker odds on the model-supplied ones.
// Best effort: a failing odds lookup keeps the original candidates.
func (o *Orchestrator) refreshOdds(ctx context.Context, date time.Time, candidates []models.Candidate) []models.Candidate {
	if o.odds == nil || len(candidates) == 0 {
		return candidates
	}

	sports := make(map[string]struct{})
	for _, c := range candidates {
		sports[c.Sport] = struct{}{}
	}

	fresh := make(map[string]map[models.Outcome]float64)
	for sport := range sports {
		bySport, err := o.odds.OddsForDate(ctx, sport, date)
		if err != nil {
			o.logger.WithError(err).WithField("sport", sport).
				Warn("Odds refresh failed, keeping model odds")
			continue
		}
		for matchID, odds := range bySport {
			fresh[matchID] = odds
		}
	}

	// the slice may be shared with the prediction client's cache, so the
	// overlay never mutates it in place
	out := make([]models.Candidate, len(candidates))
	copy(out, candidates)

	refreshed := 0
	for i := range out {
		current, ok := fresh[out[i].MatchID]
		if !ok {
			continue
		}
		merged := make(map[models.Outcome]float64, len(out[i].Odds))
		for outcome, price := range out[i].Odds {
			merged[outcome] = price
		}
		for outcome, price := range current {
			merged[outcome] = price
		}
		out[i].Odds = merged
		refreshed++
	}
	if refreshed > 0 {
		o.logger.WithField("count", refreshed).Info("Refreshed bookmaker odds")
	}
	return out
}

// resolveLegs reports (won, allKnown) for a pending bet
func (o *Orchestrator) resolveLegs(ctx context.Context, bet *models.BetRecord) (bool, bool, error) {
	won := true
	for _, leg := range bet.Legs {
		outcome, err := o.repos.Match.GetResult(ctx, leg.MatchID)
		if errors.Is(err, models.ErrNotFound) {
			return false, false, nil
		}
		if err != nil {
			return false, false, err
		}
		if outcome != leg.PredictedOutcome {
			won = false
		}
	}
	return won, true, nil
}

func (o *Orchestrator) currentBankroll(ctx context.Context) (float64, error) {
	latest, err := o.repos.Bankroll.Latest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return o.cfg.Staking.InitialBankroll, nil
	}
	if err != nil {
		return 0, err
	}
	return latest.Balance, nil
}

func (o *Orchestrator) snapshot(ctx context.Context, date time.Time, balance, change float64) {
	snap := models.BalanceSnapshot{
		Date:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Balance: balance,
		Change:  change,
	}
	if err := o.repos.Bankroll.SaveSnapshot(ctx, snap); err != nil {
		o.logger.WithError(err).Warn("Failed to save bankroll snapshot")
	}
}

func (o *Orchestrator) zeroBetDay(ctx context.Context, date time.Time, bankroll float64, reason string) {
	metrics.RecordZeroBetDay()
	o.snapshot(ctx, date, bankroll, 0)
	o.logger.WithFields(logrus.Fields{
		"date":   date.Format("2006-01-02"),
		"reason": reason,
	}).Info("No bet today")
}
