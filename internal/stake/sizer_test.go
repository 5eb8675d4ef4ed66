package stake

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSizer() *Sizer {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewSizer(Config{
		KellyFraction: 0.25,
		MaxBetPct:     0.05,
		MinEdgeFloor:  0.02,
		MinBankroll:   100,
	}, logger)
}

func TestFullKelly(t *testing.T) {
	// f = (b*p - q)/b with b=1.10, p=0.65, q=0.35
	kelly := FullKelly(0.65, 2.10)
	assert.InDelta(t, (1.10*0.65-0.35)/1.10, kelly, 1e-9)
	assert.InDelta(t, 0.4818, kelly, 1e-4)
}

func TestFullKellyNoEdge(t *testing.T) {
	assert.Zero(t, FullKelly(0.45, 2.00))
	assert.Zero(t, FullKelly(0.0, 2.00))
	assert.Zero(t, FullKelly(1.0, 2.00))
	assert.Zero(t, FullKelly(0.6, 1.0))
}

func TestRecommendCapsAtMaxBetPct(t *testing.T) {
	sizer := testSizer()

	rec := sizer.Recommend(0.65, 2.10, 1000)

	require.True(t, rec.IsBet())
	// Raw fractional Kelly is ~120.5, capped at 5% of 1000.
	assert.InDelta(t, 120.45, rec.CalculatedStake, 0.1)
	assert.Equal(t, 50.0, rec.RecommendedStake)
	assert.InDelta(t, 5.0, rec.StakePercentage, 1e-9)
	require.NotEmpty(t, rec.Warnings)
	assert.Contains(t, rec.Warnings[0], "capped")
}

func TestRecommendZeroWhenEdgeBelowFloor(t *testing.T) {
	sizer := testSizer()

	// edge = 0.51*1.95 - 1 = -0.0055
	rec := sizer.Recommend(0.51, 1.95, 1000)
	assert.False(t, rec.IsBet())
	assert.Zero(t, rec.RecommendedStake)
}

func TestRecommendZeroWhenKellyNonPositive(t *testing.T) {
	sizer := testSizer()
	sizer.config.MinEdgeFloor = -1 // bypass the floor to reach the Kelly check

	rec := sizer.Recommend(0.40, 2.00, 1000)
	assert.False(t, rec.IsBet())
}

func TestRecommendMonotoneInEdgeUntilCap(t *testing.T) {
	sizer := testSizer()

	odds := 2.0
	previous := 0.0
	capped := false
	for p := 0.52; p <= 0.80; p += 0.02 {
		rec := sizer.Recommend(p, odds, 1000)
		if capped {
			assert.Equal(t, 50.0, rec.RecommendedStake)
			continue
		}
		assert.GreaterOrEqual(t, rec.RecommendedStake, previous)
		previous = rec.RecommendedStake
		if rec.RecommendedStake == 50.0 {
			capped = true
		}
	}
	assert.True(t, capped, "expected the max bet cap to bind for large edges")
}

func TestRecommendStrongEdgeFloor(t *testing.T) {
	sizer := testSizer()

	// Tiny bankroll: fractional Kelly would give dust, but edge is strong
	// so the 0.5% floor and the 1-unit absolute floor kick in.
	rec := sizer.Recommend(0.65, 2.10, 150)
	require.True(t, rec.IsBet())
	assert.GreaterOrEqual(t, rec.RecommendedStake, 1.0)
}

func TestRecommendWarnsBelowMinBankroll(t *testing.T) {
	sizer := testSizer()

	rec := sizer.Recommend(0.65, 2.10, 50)
	require.True(t, rec.IsBet())
	found := false
	for _, w := range rec.Warnings {
		if strings.Contains(w, "below configured minimum") {
			found = true
		}
	}
	assert.True(t, found, "expected a bankroll warning, got %v", rec.Warnings)
}

func TestRecommendZeroBankroll(t *testing.T) {
	sizer := testSizer()
	rec := sizer.Recommend(0.65, 2.10, 0)
	assert.False(t, rec.IsBet())
}

func TestRecommendRoundsToCurrencyPrecision(t *testing.T) {
	sizer := testSizer()

	rec := sizer.Recommend(0.63, 2.05, 987.65)
	cents := rec.RecommendedStake * 100
	assert.InDelta(t, cents, float64(int64(cents+0.5)), 1e-6)
}
