package models

import "time"

// BalanceSnapshot is one point of the daily bankroll series
type BalanceSnapshot struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
	Change  float64   `json:"change"`
}

// BankrollState threads a single bankroll value through decision cycles.
// History is append-only; the current value of cycle n+1 always equals the
// ending value of cycle n.
type BankrollState struct {
	Initial float64           `json:"initial"`
	Current float64           `json:"current"`
	Peak    float64           `json:"peak"`
	History []BalanceSnapshot `json:"history"`
}

// NewBankrollState seeds a bankroll chain at the initial amount
func NewBankrollState(initial float64) *BankrollState {
	return &BankrollState{
		Initial: initial,
		Current: initial,
		Peak:    initial,
	}
}

// Apply moves the bankroll by delta and returns the new balance
func (b *BankrollState) Apply(delta float64) float64 {
	b.Current += delta
	if b.Current > b.Peak {
		b.Peak = b.Current
	}
	return b.Current
}

// Snapshot appends a balance point for the given date
func (b *BankrollState) Snapshot(date time.Time, change float64) {
	b.History = append(b.History, BalanceSnapshot{
		Date:    date,
		Balance: b.Current,
		Change:  change,
	})
}

// Drawdown returns the current peak-to-trough decline as a fraction
func (b *BankrollState) Drawdown() float64 {
	if b.Peak <= 0 {
		return 0
	}
	dd := (b.Peak - b.Current) / b.Peak
	if dd < 0 {
		return 0
	}
	return dd
}
