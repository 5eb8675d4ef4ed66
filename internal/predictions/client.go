// Package predictions provides the HTTP client for the model inference
// service that produces daily match candidates.
package predictions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/models"
)

// ClientConfig holds prediction service client configuration
type ClientConfig struct {
	URL           string
	APIKey        string
	Timeout       time.Duration
	RetryAttempts int
	CacheTTL      time.Duration
}

// Client fetches candidates from the prediction service. Responses are
// cached per day so the backtest and the live cycle never hammer the
// inference service with repeat lookups.
type Client struct {
	http    *datasource.RateLimitedHTTPClient
	baseURL string
	apiKey  string
	cache   *cache.Cache
	logger  *logrus.Logger
}

// NewClient creates a prediction service client
func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}

	httpCfg := datasource.DefaultHTTPClientConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	if cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = cfg.RetryAttempts
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Client{
		http:    datasource.NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

// CandidatesForDate returns the model's candidates for a day. A 404 or an
// empty body from the service maps to ErrDataUnavailable so callers can
// treat the day as a zero-bet day rather than a failure.
func (c *Client) CandidatesForDate(ctx context.Context, date time.Time) ([]models.Candidate, error) {
	key := date.Format("2006-01-02")
	if cached, found := c.cache.Get(key); found {
		return cached.([]models.Candidate), nil
	}

	endpoint := fmt.Sprintf("%s/predictions?date=%s", c.baseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build predictions request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("predictions request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return nil, models.ErrDataUnavailable
	default:
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var candidates []models.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode predictions response: %w", err)
	}

	valid := candidates[:0]
	for _, candidate := range candidates {
		if !candidate.PredictedOutcome.Valid() {
			c.logger.WithFields(logrus.Fields{
				"match_id": candidate.MatchID,
				"outcome":  candidate.PredictedOutcome,
			}).Warn("Dropping candidate with invalid predicted outcome")
			continue
		}
		valid = append(valid, candidate)
	}

	c.cache.Set(key, valid, cache.DefaultExpiration)

	c.logger.WithFields(logrus.Fields{
		"date":       key,
		"candidates": len(valid),
	}).Debug("Fetched predictions")

	return valid, nil
}
