package models

// Parlay is a combined bet over distinct matches. It pays only when every
// leg wins; total odds are the product of leg odds and the combined
// probability is the product of leg probabilities discounted by the
// correlation factor.
type Parlay struct {
	Picks               []EvaluatedPick `json:"picks"`
	NumPicks            int             `json:"num_picks"`
	TotalOdds           float64         `json:"total_odds"`
	RawProbability      float64         `json:"raw_probability"`
	CorrelationFactor   float64         `json:"correlation_factor"`
	CombinedProbability float64         `json:"combined_probability"`
	Edge                float64         `json:"edge"`
	EdgePercentage      float64         `json:"edge_percentage"`
	ExpectedValue       float64         `json:"expected_value"`
	Score               float64         `json:"score"`
}

// MatchIDs returns the leg match ids in leg order
func (p *Parlay) MatchIDs() []string {
	ids := make([]string, 0, len(p.Picks))
	for _, pick := range p.Picks {
		ids = append(ids, pick.MatchID)
	}
	return ids
}
