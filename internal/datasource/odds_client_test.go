package datasource

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

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, quietLogger())
}

func TestOddsClientFetchesOdds(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"match_id":"m1","home":2.10,"draw":3.60,"away":5.00},
			{"match_id":"m2","home":1.80,"draw":3.40,"away":0}
		]`))
	}))
	defer server.Close()

	client := NewOddsClient(testHTTPClient(), server.URL, "test-key", quietLogger())
	odds, err := client.OddsForDate(context.Background(), "soccer", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/v4/sports/soccer/odds", gotPath)
	require.Len(t, odds, 2)
	assert.Equal(t, 2.10, odds["m1"][models.OutcomeHomeWin])
	assert.Equal(t, 5.00, odds["m1"][models.OutcomeAwayWin])

	// zero odds are dropped, not stored
	_, hasAway := odds["m2"][models.OutcomeAwayWin]
	assert.False(t, hasAway)
}

func TestOddsClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOddsClient(testHTTPClient(), server.URL, "bad-key", quietLogger())
	_, err := client.OddsForDate(context.Background(), "soccer", time.Now())
	assert.Error(t, err)
}

func TestRateLimitedClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewOddsClient(testHTTPClient(), server.URL, "key", quietLogger())
	odds, err := client.OddsForDate(context.Background(), "soccer", time.Now())
	require.NoError(t, err)
	assert.Empty(t, odds)
	assert.Equal(t, 2, attempts)
}
