package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/yourusername/value-parlay/internal/models"
)

// csv column layout for historical match files
const (
	colMatchID = iota
	colDate
	colSport
	colLeague
	colHomeTeam
	colAwayTeam
	colPredictedOutcome
	colProbHome
	colProbDraw
	colProbAway
	colOddsHome
	colOddsDraw
	colOddsAway
	colResult
	csvColumnCount
)

// CSVHistoryProvider serves candidates and realized outcomes from a local
// CSV export, so backtests can run without a database. The whole file is
// loaded up front; an empty result column means the outcome is unknown.
type CSVHistoryProvider struct {
	byDate  map[string][]models.Candidate
	results map[string]models.Outcome
}

// NewCSVHistoryProvider loads a historical match file
func NewCSVHistoryProvider(path string) (*CSVHistoryProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	provider := &CSVHistoryProvider{
		byDate:  make(map[string][]models.Candidate),
		results: make(map[string]models.Outcome),
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = csvColumnCount

	// header row
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read history header: %w", err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read history line %d: %w", line, err)
		}
		if err := provider.addRecord(record); err != nil {
			return nil, fmt.Errorf("invalid history line %d: %w", line, err)
		}
	}

	return provider, nil
}

func (p *CSVHistoryProvider) addRecord(record []string) error {
	matchDate, err := time.Parse("2006-01-02", record[colDate])
	if err != nil {
		return fmt.Errorf("bad date %q: %w", record[colDate], err)
	}

	outcome := models.Outcome(record[colPredictedOutcome])
	if !outcome.Valid() {
		return fmt.Errorf("bad predicted outcome %q", record[colPredictedOutcome])
	}

	probabilities, err := parseOutcomeTriple(record[colProbHome], record[colProbDraw], record[colProbAway])
	if err != nil {
		return fmt.Errorf("bad probabilities: %w", err)
	}
	odds, err := parseOutcomeTriple(record[colOddsHome], record[colOddsDraw], record[colOddsAway])
	if err != nil {
		return fmt.Errorf("bad odds: %w", err)
	}

	candidate := models.Candidate{
		MatchID:          record[colMatchID],
		Sport:            record[colSport],
		League:           record[colLeague],
		HomeTeam:         record[colHomeTeam],
		AwayTeam:         record[colAwayTeam],
		MatchDate:        matchDate,
		PredictedOutcome: outcome,
		Probabilities:    probabilities,
		Odds:             odds,
	}

	key := matchDate.Format("2006-01-02")
	p.byDate[key] = append(p.byDate[key], candidate)

	if record[colResult] != "" {
		result := models.Outcome(record[colResult])
		if !result.Valid() {
			return fmt.Errorf("bad result %q", record[colResult])
		}
		p.results[candidate.MatchID] = result
	}

	return nil
}

func parseOutcomeTriple(home, draw, away string) (map[models.Outcome]float64, error) {
	triple := make(map[models.Outcome]float64, 3)
	for outcome, raw := range map[models.Outcome]string{
		models.OutcomeHomeWin: home,
		models.OutcomeDraw:    draw,
		models.OutcomeAwayWin: away,
	} {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		triple[outcome] = v
	}
	return triple, nil
}

// CandidatesForDate returns the candidates for a day; ErrDataUnavailable
// when the file has no rows for it
func (p *CSVHistoryProvider) CandidatesForDate(_ context.Context, date time.Time) ([]models.Candidate, error) {
	candidates, ok := p.byDate[date.Format("2006-01-02")]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return candidates, nil
}

// Result returns the recorded outcome of a match, known=false when the
// result column was empty
func (p *CSVHistoryProvider) Result(_ context.Context, matchID string) (models.Outcome, bool, error) {
	outcome, ok := p.results[matchID]
	if !ok {
		return models.OutcomeUnknown, false, nil
	}
	return outcome, true, nil
}
