package models

// StakeRecommendation is the sizing decision for one bet. Warnings are
// advisory; a zero RecommendedStake means no bet.
type StakeRecommendation struct {
	Strategy         string   `json:"strategy"`
	CalculatedStake  float64  `json:"calculated_stake"`
	RecommendedStake float64  `json:"recommended_stake"`
	StakePercentage  float64  `json:"stake_percentage"`
	Edge             float64  `json:"edge"`
	FullKelly        float64  `json:"full_kelly"`
	PotentialReturn  float64  `json:"potential_return"`
	PotentialProfit  float64  `json:"potential_profit"`
	Warnings         []string `json:"warnings,omitempty"`
}

// IsBet reports whether the recommendation places money at risk
func (s *StakeRecommendation) IsBet() bool {
	return s.RecommendedStake > 0
}
