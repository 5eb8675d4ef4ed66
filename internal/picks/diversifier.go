package picks

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
)

// Diversifier caps the number of accepted picks per league
type Diversifier struct {
	maxPerLeague int
	logger       *logrus.Logger
}

// NewDiversifier creates a diversifier with the given per-league cap
func NewDiversifier(maxPerLeague int, logger *logrus.Logger) *Diversifier {
	if logger == nil {
		logger = logrus.New()
	}
	return &Diversifier{maxPerLeague: maxPerLeague, logger: logger}
}

// Diversify keeps each pick while its league's counter is below the cap.
// Input must already be sorted by descending edge; a single forward pass
// preserves that order, so ties keep their input position.
func (d *Diversifier) Diversify(sorted []models.EvaluatedPick) []models.EvaluatedPick {
	if d.maxPerLeague <= 0 {
		return sorted
	}

	leagueCounts := make(map[string]int)
	diversified := make([]models.EvaluatedPick, 0, len(sorted))

	for _, pick := range sorted {
		if leagueCounts[pick.League] < d.maxPerLeague {
			diversified = append(diversified, pick)
			leagueCounts[pick.League]++
		}
	}

	if len(diversified) < len(sorted) {
		d.logger.WithFields(logrus.Fields{
			"before": len(sorted),
			"after":  len(diversified),
		}).Info("Diversification applied")
	}

	return diversified
}
