package backtest

import (
	"time"

	"github.com/yourusername/value-parlay/internal/models"
)

// State tracks a simulation in flight: the bankroll chain, the append-only
// bet ledger and the count of days where no bet was placed. Both series are
// append-only, so interrupting between periods leaves valid resumable state.
type State struct {
	Bankroll    *models.BankrollState
	Bets        []models.BetRecord
	ZeroBetDays int
}

// NewState seeds simulation state at the initial bankroll
func NewState(initialBankroll float64) *State {
	return &State{
		Bankroll: models.NewBankrollState(initialBankroll),
		Bets:     []models.BetRecord{},
	}
}

// RecordBet settles a bet into the ledger and moves the bankroll.
// The record's bankroll-before must equal the current bankroll: the chain
// is causal, cycle n+1 starts exactly where cycle n ended.
func (s *State) RecordBet(bet models.BetRecord) {
	s.Bankroll.Apply(bet.Profit)
	bet.BankrollAfter = s.Bankroll.Current
	s.Bets = append(s.Bets, bet)
}

// RecordDay appends the daily balance snapshot; called once per period
// whether or not a bet was placed
func (s *State) RecordDay(date time.Time, change float64) {
	s.Bankroll.Snapshot(date, change)
}
