package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/models"
)

// OddsClient fetches bookmaker odds from the odds API over the
// rate-limited transport
type OddsClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewOddsClient creates an odds API client
func NewOddsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *OddsClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &OddsClient{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

type oddsPayload struct {
	MatchID string  `json:"match_id"`
	Home    float64 `json:"home"`
	Draw    float64 `json:"draw"`
	Away    float64 `json:"away"`
}

// OddsForDate returns decimal odds per match for a sport and day
func (c *OddsClient) OddsForDate(ctx context.Context, sport string, date time.Time) (map[string]map[models.Outcome]float64, error) {
	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds?date=%s&apiKey=%s",
		c.baseURL, url.PathEscape(sport), date.Format("2006-01-02"), url.QueryEscape(c.apiKey))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("odds request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds API returned status %d", resp.StatusCode)
	}

	var payload []oddsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}

	odds := make(map[string]map[models.Outcome]float64, len(payload))
	for _, entry := range payload {
		perMatch := make(map[models.Outcome]float64, 3)
		if entry.Home > 0 {
			perMatch[models.OutcomeHomeWin] = entry.Home
		}
		if entry.Draw > 0 {
			perMatch[models.OutcomeDraw] = entry.Draw
		}
		if entry.Away > 0 {
			perMatch[models.OutcomeAwayWin] = entry.Away
		}
		odds[entry.MatchID] = perMatch
	}

	c.logger.WithFields(logrus.Fields{
		"sport":   sport,
		"date":    date.Format("2006-01-02"),
		"matches": len(odds),
	}).Debug("Fetched odds")

	return odds, nil
}
