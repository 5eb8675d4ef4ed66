package models

// EvaluatedPick is a Candidate scored against the acceptance thresholds.
// Derived and ephemeral: picks live for one decision cycle.
type EvaluatedPick struct {
	Candidate

	ImpliedProbability float64  `json:"implied_probability"`
	Edge               float64  `json:"edge"`
	EdgePercentage     float64  `json:"edge_percentage"`
	ExpectedValue      float64  `json:"expected_value"`
	Accepted           bool     `json:"accepted"`
	RejectionReasons   []string `json:"rejection_reasons,omitempty"`
}

// Probability returns the model probability backing the pick
func (p *EvaluatedPick) Probability() float64 {
	return p.PredictedProbability()
}

// SelectedOdds returns the market odds backing the pick
func (p *EvaluatedPick) SelectedOdds() float64 {
	return p.PredictedOdds()
}
