package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/value-parlay/internal/models"
)

const historyHeader = "match_id,date,sport,league,home_team,away_team,predicted_outcome,prob_home,prob_draw,prob_away,odds_home,odds_draw,odds_away,result\n"

func writeHistoryFile(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(historyHeader+rows), 0o644))
	return path
}

func TestCSVHistoryProviderLoadsCandidates(t *testing.T) {
	path := writeHistoryFile(t,
		"m1,2024-03-01,football,premier_league,Arsenal,Wolves,home_win,0.65,0.20,0.15,2.10,3.60,5.00,home_win\n"+
			"m2,2024-03-01,football,la_liga,Barcelona,Getafe,home_win,0.62,0.22,0.16,2.00,3.50,4.80,\n"+
			"m3,2024-03-02,football,serie_a,Inter,Lecce,away_win,0.20,0.25,0.55,4.50,3.60,1.80,draw\n")

	provider, err := NewCSVHistoryProvider(path)
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candidates, err := provider.CandidatesForDate(context.Background(), day1)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "m1", first.MatchID)
	assert.Equal(t, "premier_league", first.League)
	assert.Equal(t, models.OutcomeHomeWin, first.PredictedOutcome)
	assert.Equal(t, 0.65, first.PredictedProbability())
	assert.Equal(t, 2.10, first.PredictedOdds())
}

func TestCSVHistoryProviderResults(t *testing.T) {
	path := writeHistoryFile(t,
		"m1,2024-03-01,football,premier_league,Arsenal,Wolves,home_win,0.65,0.20,0.15,2.10,3.60,5.00,home_win\n"+
			"m2,2024-03-01,football,la_liga,Barcelona,Getafe,home_win,0.62,0.22,0.16,2.00,3.50,4.80,\n")

	provider, err := NewCSVHistoryProvider(path)
	require.NoError(t, err)

	outcome, known, err := provider.Result(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, models.OutcomeHomeWin, outcome)

	// empty result column means the outcome is unknown
	outcome, known, err = provider.Result(context.Background(), "m2")
	require.NoError(t, err)
	assert.False(t, known)
	assert.Equal(t, models.OutcomeUnknown, outcome)
}

func TestCSVHistoryProviderMissingDay(t *testing.T) {
	path := writeHistoryFile(t,
		"m1,2024-03-01,football,premier_league,Arsenal,Wolves,home_win,0.65,0.20,0.15,2.10,3.60,5.00,home_win\n")

	provider, err := NewCSVHistoryProvider(path)
	require.NoError(t, err)

	_, err = provider.CandidatesForDate(context.Background(), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestCSVHistoryProviderRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad date", "m1,01/03/2024,football,premier_league,Arsenal,Wolves,home_win,0.65,0.20,0.15,2.10,3.60,5.00,\n"},
		{"bad outcome", "m1,2024-03-01,football,premier_league,Arsenal,Wolves,banana,0.65,0.20,0.15,2.10,3.60,5.00,\n"},
		{"bad probability", "m1,2024-03-01,football,premier_league,Arsenal,Wolves,home_win,abc,0.20,0.15,2.10,3.60,5.00,\n"},
		{"bad result", "m1,2024-03-01,football,premier_league,Arsenal,Wolves,home_win,0.65,0.20,0.15,2.10,3.60,5.00,banana\n"},
		{"wrong column count", "m1,2024-03-01,football\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeHistoryFile(t, tt.row)
			_, err := NewCSVHistoryProvider(path)
			assert.Error(t, err)
		})
	}
}

func TestCSVHistoryProviderMissingFile(t *testing.T) {
	_, err := NewCSVHistoryProvider(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
