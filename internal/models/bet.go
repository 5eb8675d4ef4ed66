package models

import (
	"time"

	"github.com/google/uuid"
)

// BetResult represents the settled outcome of a bet
type BetResult string

const (
	BetResultPending BetResult = "pending"
	BetResultWin     BetResult = "win"
	BetResultLoss    BetResult = "loss"
)

// BetRecord is one entry of the append-only bet ledger: a placed parlay
// with its stake, settlement and the bankroll on both sides of it
type BetRecord struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Date           time.Time       `db:"bet_date" json:"date"`
	Stake          float64         `db:"stake" json:"stake"`
	TotalOdds      float64         `db:"total_odds" json:"total_odds"`
	Probability    float64         `db:"combined_probability" json:"combined_probability"`
	Legs           []EvaluatedPick `db:"-" json:"legs"`
	Result         BetResult       `db:"result" json:"result"`
	Profit         float64         `db:"profit" json:"profit"`
	BankrollBefore float64         `db:"bankroll_before" json:"bankroll_before"`
	BankrollAfter  float64         `db:"bankroll_after" json:"bankroll_after"`
	PlacedAt       time.Time       `db:"placed_at" json:"placed_at"`
	SettledAt      *time.Time      `db:"settled_at" json:"settled_at,omitempty"`
}

// IsSettled reports whether the bet has a terminal result
func (b *BetRecord) IsSettled() bool {
	return b.Result == BetResultWin || b.Result == BetResultLoss
}

// PotentialReturn returns the gross payout if every leg wins
func (b *BetRecord) PotentialReturn() float64 {
	return b.Stake * b.TotalOdds
}
