package predictions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-parlay/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		URL:           serverURL,
		APIKey:        "test-key",
		Timeout:       time.Second,
		RetryAttempts: 1,
		CacheTTL:      time.Minute,
	}, quietLogger())
}

const candidatePayload = `[
	{
		"match_id": "m1",
		"sport": "football",
		"league": "premier_league",
		"home_team": "Arsenal",
		"away_team": "Wolves",
		"match_date": "2024-03-01T18:00:00Z",
		"predicted_outcome": "home_win",
		"probabilities": {"home_win": 0.65, "draw": 0.20, "away_win": 0.15},
		"odds": {"home_win": 2.10, "draw": 3.60, "away_win": 5.00}
	},
	{
		"match_id": "m2",
		"sport": "football",
		"league": "la_liga",
		"home_team": "Barcelona",
		"away_team": "Getafe",
		"match_date": "2024-03-01T20:00:00Z",
		"predicted_outcome": "nonsense",
		"probabilities": {"home_win": 0.62},
		"odds": {"home_win": 2.00}
	}
]`

func TestClientFetchesAndFiltersCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidatePayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candidates, err := client.CandidatesForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// the candidate with an invalid predicted outcome is dropped
	require.Len(t, candidates, 1)
	assert.Equal(t, "m1", candidates[0].MatchID)
	assert.Equal(t, models.OutcomeHomeWin, candidates[0].PredictedOutcome)
	assert.Equal(t, 0.65, candidates[0].PredictedProbability())
	assert.Equal(t, 2.10, candidates[0].PredictedOdds())
}

func TestClientCachesPerDay(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(candidatePayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.CandidatesForDate(context.Background(), date)
	require.NoError(t, err)
	_, err = client.CandidatesForDate(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
}

func TestClientMapsNotFoundToDataUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CandidatesForDate(context.Background(), time.Now())
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestClientSurfacesServerFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CandidatesForDate(context.Background(), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDataUnavailable)
}
