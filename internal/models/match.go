package models

import (
	"time"
)

// Outcome represents a predicted or realized match outcome
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeAwayWin Outcome = "away_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// Valid reports whether the outcome is one of the settleable labels
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHomeWin, OutcomeAwayWin, OutcomeDraw:
		return true
	default:
		return false
	}
}

// Candidate represents one match with model probabilities and market odds,
// produced once per match per decision cycle by the prediction collaborator
type Candidate struct {
	MatchID          string              `json:"match_id"`
	Sport            string              `json:"sport"`
	League           string              `json:"league"`
	HomeTeam         string              `json:"home_team"`
	AwayTeam         string              `json:"away_team"`
	MatchDate        time.Time           `json:"match_date"`
	PredictedOutcome Outcome             `json:"predicted_outcome"`
	Probabilities    map[Outcome]float64 `json:"probabilities"`
	Odds             map[Outcome]float64 `json:"odds"`
}

// PredictedProbability returns the model probability for the predicted outcome
func (c *Candidate) PredictedProbability() float64 {
	return c.Probabilities[c.PredictedOutcome]
}

// PredictedOdds returns the market odds for the predicted outcome,
// zero when the market does not quote that outcome
func (c *Candidate) PredictedOdds() float64 {
	return c.Odds[c.PredictedOutcome]
}

// Label returns a short human-readable identifier for logging
func (c *Candidate) Label() string {
	return c.HomeTeam + " vs " + c.AwayTeam
}
