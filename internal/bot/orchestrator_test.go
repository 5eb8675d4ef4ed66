package bot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-parlay/internal/config"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/models"
)

type memPredictions struct {
	byDate map[string][]models.Candidate
}

func (m *memPredictions) CandidatesForDate(_ context.Context, date time.Time) ([]models.Candidate, error) {
	candidates, ok := m.byDate[date.Format("2006-01-02")]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return candidates, nil
}

type memMatchRepo struct {
	results  map[string]models.Outcome
	upserted int
}

func (m *memMatchRepo) Upsert(context.Context, *models.Candidate) error { return nil }

func (m *memMatchRepo) UpsertBatch(_ context.Context, candidates []models.Candidate) error {
	m.upserted += len(candidates)
	return nil
}

func (m *memMatchRepo) GetByDate(context.Context, time.Time) ([]models.Candidate, error) {
	return nil, nil
}

func (m *memMatchRepo) SaveResult(_ context.Context, matchID string, outcome models.Outcome) error {
	m.results[matchID] = outcome
	return nil
}

func (m *memMatchRepo) GetResult(_ context.Context, matchID string) (models.Outcome, error) {
	outcome, ok := m.results[matchID]
	if !ok {
		return models.OutcomeUnknown, models.ErrNotFound
	}
	return outcome, nil
}

type memBetRepo struct {
	bets []*models.BetRecord
}

func (m *memBetRepo) Create(_ context.Context, bet *models.BetRecord) error {
	clone := *bet
	m.bets = append(m.bets, &clone)
	return nil
}

func (m *memBetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BetRecord, error) {
	for _, bet := range m.bets {
		if bet.ID == id {
			return bet, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memBetRepo) GetPending(context.Context) ([]*models.BetRecord, error) {
	var pending []*models.BetRecord
	for _, bet := range m.bets {
		if bet.Result == models.BetResultPending {
			pending = append(pending, bet)
		}
	}
	return pending, nil
}

func (m *memBetRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]*models.BetRecord, error) {
	return m.bets, nil
}

func (m *memBetRepo) Settle(_ context.Context, id uuid.UUID, result models.BetResult, profit, bankrollAfter float64, settledAt time.Time) error {
	for _, bet := range m.bets {
		if bet.ID == id {
			bet.Result = result
			bet.Profit = profit
			bet.BankrollAfter = bankrollAfter
			bet.SettledAt = &settledAt
			return nil
		}
	}
	return models.ErrNotFound
}

type memBankrollRepo struct {
	snapshots []models.BalanceSnapshot
}

func (m *memBankrollRepo) Latest(context.Context) (*models.BalanceSnapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, models.ErrNotFound
	}
	latest := m.snapshots[len(m.snapshots)-1]
	return &latest, nil
}

func (m *memBankrollRepo) SaveSnapshot(_ context.Context, snapshot models.BalanceSnapshot) error {
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *memBankrollRepo) GetHistory(context.Context, time.Time, time.Time) ([]models.BalanceSnapshot, error) {
	return m.snapshots, nil
}

type recordingNotifier struct {
	parlays int
	lastRec *models.StakeRecommendation
}

func (r *recordingNotifier) NotifyParlay(_ context.Context, _ *models.Parlay, rec *models.StakeRecommendation) error {
	r.parlays++
	r.lastRec = rec
	return nil
}

func (r *recordingNotifier) NotifyText(context.Context, string) error { return nil }

func botConfig() *config.Config {
	return &config.Config{
		Picks: config.PicksConfig{
			MinProbability:    0.55,
			MinEdge:           0.05,
			MinOdds:           1.5,
			MaxOdds:           3.5,
			MaxPicksPerLeague: 2,
		},
		Parlay: config.ParlayConfig{
			MinPicks:     2,
			MaxPicks:     3,
			MinTotalOdds: 1.5,
			MaxTotalOdds: 50.0,
		},
		Staking: config.StakingConfig{
			InitialBankroll: 1000.0,
			KellyFraction:   0.25,
			MaxBetPct:       0.05,
			MinEdgeFloor:    0.01,
			MinBankroll:     100.0,
		},
	}
}

func botCandidate(id, league string, prob, odds float64) models.Candidate {
	return models.Candidate{
		MatchID:          id,
		Sport:            "football",
		League:           league,
		HomeTeam:         "Home " + id,
		AwayTeam:         "Away " + id,
		MatchDate:        time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		PredictedOutcome: models.OutcomeHomeWin,
		Probabilities:    map[models.Outcome]float64{models.OutcomeHomeWin: prob},
		Odds:             map[models.Outcome]float64{models.OutcomeHomeWin: odds},
	}
}

type memOdds struct {
	byMatch map[string]map[models.Outcome]float64
	err     error
}

func (m *memOdds) OddsForDate(context.Context, string, time.Time) (map[string]map[models.Outcome]float64, error) {
	return m.byMatch, m.err
}

func newTestOrchestrator(t *testing.T, predictions *memPredictions) (*Orchestrator, *memMatchRepo, *memBetRepo, *memBankrollRepo, *recordingNotifier) {
	t.Helper()
	return newTestOrchestratorWithOdds(t, predictions, nil)
}

func newTestOrchestratorWithOdds(t *testing.T, predictions *memPredictions, odds datasource.OddsProvider) (*Orchestrator, *memMatchRepo, *memBetRepo, *memBankrollRepo, *recordingNotifier) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	matches := &memMatchRepo{results: map[string]models.Outcome{}}
	bets := &memBetRepo{}
	bankroll := &memBankrollRepo{}
	notifier := &recordingNotifier{}

	orchestrator, err := NewOrchestrator(botConfig(), predictions, odds, Repositories{
		Match:    matches,
		Bet:      bets,
		Bankroll: bankroll,
	}, notifier, logger)
	require.NoError(t, err)

	return orchestrator, matches, bets, bankroll, notifier
}

func TestRunOncePlacesPendingBet(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	predictions := &memPredictions{byDate: map[string][]models.Candidate{
		"2024-03-01": {
			botCandidate("m1", "premier_league", 0.65, 2.10),
			botCandidate("m2", "la_liga", 0.62, 2.00),
		},
	}}

	orchestrator, matches, bets, bankroll, notifier := newTestOrchestrator(t, predictions)
	require.NoError(t, orchestrator.RunOnce(context.Background(), date))

	require.Len(t, bets.bets, 1)
	bet := bets.bets[0]
	assert.Equal(t, models.BetResultPending, bet.Result)
	assert.Len(t, bet.Legs, 2)
	assert.Equal(t, 1000.0, bet.BankrollBefore)
	assert.Greater(t, bet.Stake, 0.0)
	assert.LessOrEqual(t, bet.Stake, 50.0)

	assert.Equal(t, 2, matches.upserted)
	assert.Equal(t, 1, notifier.parlays)
	require.NotNil(t, notifier.lastRec)
	assert.Equal(t, bet.Stake, notifier.lastRec.RecommendedStake)
	require.NotEmpty(t, bankroll.snapshots)
	assert.Equal(t, 1000.0, bankroll.snapshots[len(bankroll.snapshots)-1].Balance)
}

func TestRunOnceRefreshesOddsBeforeEvaluation(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	predictions := &memPredictions{byDate: map[string][]models.Candidate{
		"2024-03-01": {
			botCandidate("m1", "premier_league", 0.65, 2.10),
			botCandidate("m2", "la_liga", 0.62, 2.00),
		},
	}}
	odds := &memOdds{byMatch: map[string]map[models.Outcome]float64{
		"m1": {models.OutcomeHomeWin: 2.30},
	}}

	orchestrator, _, bets, _, _ := newTestOrchestratorWithOdds(t, predictions, odds)
	require.NoError(t, orchestrator.RunOnce(context.Background(), date))

	require.Len(t, bets.bets, 1)
	assert.InDelta(t, 2.30*2.00, bets.bets[0].TotalOdds, 1e-9)
}

func TestRunOnceKeepsModelOddsWhenRefreshFails(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	predictions := &memPredictions{byDate: map[string][]models.Candidate{
		"2024-03-01": {
			botCandidate("m1", "premier_league", 0.65, 2.10),
			botCandidate("m2", "la_liga", 0.62, 2.00),
		},
	}}
	odds := &memOdds{err: context.DeadlineExceeded}

	orchestrator, _, bets, _, _ := newTestOrchestratorWithOdds(t, predictions, odds)
	require.NoError(t, orchestrator.RunOnce(context.Background(), date))

	require.Len(t, bets.bets, 1)
	assert.InDelta(t, 2.10*2.00, bets.bets[0].TotalOdds, 1e-9)
}

func TestRunOnceSkipsBetWhenStakeExceedsBankroll(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	predictions := &memPredictions{byDate: map[string][]models.Candidate{
		"2024-03-01": {
			botCandidate("m1", "premier_league", 0.65, 2.10),
			botCandidate("m2", "la_liga", 0.62, 2.00),
		},
	}}

	orchestrator, _, bets, bankroll, notifier := newTestOrchestrator(t, predictions)
	// a near-bust bankroll, below the absolute stake floor
	bankroll.snapshots = append(bankroll.snapshots, models.BalanceSnapshot{
		Date:    date.AddDate(0, 0, -1),
		Balance: 0.50,
	})

	require.NoError(t, orchestrator.RunOnce(context.Background(), date))

	assert.Empty(t, bets.bets)
	assert.Zero(t, notifier.parlays)
	assert.Equal(t, 0.50, bankroll.snapshots[len(bankroll.snapshots)-1].Balance)
}

func TestRunOnceZeroBetDayWhenDataUnavailable(t *testing.T) {
	orchestrator, _, bets, bankroll, notifier := newTestOrchestrator(t, &memPredictions{})

	require.NoError(t, orchestrator.RunOnce(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	assert.Empty(t, bets.bets)
	assert.Zero(t, notifier.parlays)
	// the daily snapshot still lands
	require.Len(t, bankroll.snapshots, 1)
	assert.Equal(t, 1000.0, bankroll.snapshots[0].Balance)
}

func TestRunOnceSettlesEarlierBetsFirst(t *testing.T) {
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	predictions := &memPredictions{byDate: map[string][]models.Candidate{}}

	orchestrator, matches, bets, bankroll, _ := newTestOrchestrator(t, predictions)

	// a pending two-leg bet from yesterday, both legs now resolved as wins
	leg1 := models.EvaluatedPick{Candidate: botCandidate("m1", "premier_league", 0.65, 2.10)}
	leg2 := models.EvaluatedPick{Candidate: botCandidate("m2", "la_liga", 0.62, 2.00)}
	pending := &models.BetRecord{
		ID:             uuid.New(),
		Date:           date.AddDate(0, 0, -1),
		Stake:          50.0,
		TotalOdds:      4.20,
		Legs:           []models.EvaluatedPick{leg1, leg2},
		Result:         models.BetResultPending,
		BankrollBefore: 1000.0,
		BankrollAfter:  1000.0,
	}
	bets.bets = append(bets.bets, pending)
	matches.results["m1"] = models.OutcomeHomeWin
	matches.results["m2"] = models.OutcomeHomeWin

	require.NoError(t, orchestrator.RunOnce(context.Background(), date))

	assert.Equal(t, models.BetResultWin, pending.Result)
	assert.InDelta(t, 50.0*3.20, pending.Profit, 1e-9)
	assert.InDelta(t, 1160.0, pending.BankrollAfter, 1e-9)
	require.NotNil(t, pending.SettledAt)
	require.NotEmpty(t, bankroll.snapshots)
	assert.InDelta(t, 1160.0, bankroll.snapshots[0].Balance, 1e-9)
}

func TestSettlementSkipsBetsWithUnknownLegs(t *testing.T) {
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	orchestrator, matches, bets, _, _ := newTestOrchestrator(t, &memPredictions{})

	leg1 := models.EvaluatedPick{Candidate: botCandidate("m1", "premier_league", 0.65, 2.10)}
	leg2 := models.EvaluatedPick{Candidate: botCandidate("m2", "la_liga", 0.62, 2.00)}
	pending := &models.BetRecord{
		ID:        uuid.New(),
		Stake:     50.0,
		TotalOdds: 4.20,
		Legs:      []models.EvaluatedPick{leg1, leg2},
		Result:    models.BetResultPending,
	}
	bets.bets = append(bets.bets, pending)
	// only one leg has a recorded result
	matches.results["m1"] = models.OutcomeHomeWin

	require.NoError(t, orchestrator.RunOnce(context.Background(), date))
	assert.Equal(t, models.BetResultPending, pending.Result)
}

func TestSettlementLosingLeg(t *testing.T) {
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	orchestrator, matches, bets, _, _ := newTestOrchestrator(t, &memPredictions{})

	leg := models.EvaluatedPick{Candidate: botCandidate("m1", "premier_league", 0.65, 2.10)}
	pending := &models.BetRecord{
		ID:        uuid.New(),
		Stake:     40.0,
		TotalOdds: 2.10,
		Legs:      []models.EvaluatedPick{leg},
		Result:    models.BetResultPending,
	}
	bets.bets = append(bets.bets, pending)
	matches.results["m1"] = models.OutcomeDraw

	require.NoError(t, orchestrator.RunOnce(context.Background(), date))
	assert.Equal(t, models.BetResultLoss, pending.Result)
	assert.InDelta(t, -40.0, pending.Profit, 1e-9)
}

func TestNewOrchestratorRequiresDependencies(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := NewOrchestrator(nil, &memPredictions{}, nil, Repositories{}, nil, logger)
	assert.Error(t, err)

	_, err = NewOrchestrator(botConfig(), nil, nil, Repositories{}, nil, logger)
	assert.Error(t, err)

	_, err = NewOrchestrator(botConfig(), &memPredictions{}, nil, Repositories{}, nil, logger)
	assert.Error(t, err)
}
