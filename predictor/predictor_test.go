package predictor

import (
	"testing"

	"josaa-predictor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridProbabilityFarBelowOpening(t *testing.T) {
	// An improvement of more than 50% over the opening rank is a lock
	p := HybridProbability(100, 1000, 2000)
	assert.Equal(t, 100.0, p)
}

func TestHybridProbabilityAtOpening(t *testing.T) {
	p := HybridProbability(1000, 1000, 2000)
	assert.InDelta(t, 98.03, p, 0.01)
}

func TestHybridProbabilityMidWindow(t *testing.T) {
	// Midpoint of the window: logistic contributes 50, piecewise 60
	p := HybridProbability(1500, 1000, 2000)
	assert.InDelta(t, 53.0, p, 0.01)
}

func TestHybridProbabilityAtClosing(t *testing.T) {
	p := HybridProbability(2000, 1000, 2000)
	assert.InDelta(t, 4.97, p, 0.01)
}

func TestHybridProbabilityJustPastClosing(t *testing.T) {
	p := HybridProbability(2050, 1000, 2000)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 5.0)
}

func TestHybridProbabilityFarPastClosing(t *testing.T) {
	assert.Equal(t, 0.0, HybridProbability(2101, 1000, 2000))
	assert.Equal(t, 0.0, HybridProbability(50000, 1000, 2000))
}

func TestHybridProbabilityDegenerateWindow(t *testing.T) {
	// Opening equals closing: the spread falls back to 1
	p := HybridProbability(5000, 5000, 5000)
	assert.InDelta(t, 63.5, p, 0.01)
}

func TestHybridProbabilityMonotoneInsideWindow(t *testing.T) {
	prev := 101.0
	for rank := 1000.0; rank <= 2000; rank += 100 {
		p := HybridProbability(rank, 1000, 2000)
		assert.LessOrEqual(t, p, prev, "probability should not increase with rank (rank=%v)", rank)
		prev = p
	}
}

func TestInterpretationBands(t *testing.T) {
	tests := []struct {
		probability float64
		want        string
	}{
		{100, ChanceVeryHigh},
		{95, ChanceVeryHigh},
		{94.99, ChanceHigh},
		{80, ChanceHigh},
		{79.99, ChanceModerate},
		{60, ChanceModerate},
		{59.99, ChanceLow},
		{40, ChanceLow},
		{39.99, ChanceVeryLow},
		{0.01, ChanceVeryLow},
		{0, ChanceNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpretation(tt.probability), "probability %v", tt.probability)
	}
}

func testCutoffs() []models.Cutoff {
	return []models.Cutoff{
		{Institute: "NIT Trichy", CollegeType: "NIT", Program: "Computer Science", Category: "OPEN", OpeningRank: 1000, ClosingRank: 2000, Round: "6"},
		{Institute: "IIT Bombay", CollegeType: "IIT", Program: "Computer Science", Category: "OPEN", OpeningRank: 1500, ClosingRank: 3000, Round: "6"},
		{Institute: "IIT Delhi", CollegeType: "IIT", Program: "Computer Science", Category: "OPEN", OpeningRank: 100, ClosingRank: 200, Round: "6"},
	}
}

func TestBuildPreferencesOrderingAndNumbering(t *testing.T) {
	prefs := BuildPreferences(1200, testCutoffs(), 0)

	// IIT Delhi's window is far above the rank and must be dropped
	require.Len(t, prefs, 2)

	// The rank beats IIT Bombay's opening, so it scores higher than the
	// NIT where the rank sits inside the window
	assert.Equal(t, "IIT Bombay", prefs[0].Institute)
	assert.Equal(t, "NIT Trichy", prefs[1].Institute)

	for i, p := range prefs {
		assert.Equal(t, i+1, p.Preference)
		assert.NotEmpty(t, p.AdmissionChances)
	}

	assert.GreaterOrEqual(t, prefs[0].Probability, prefs[1].Probability)
}

func TestBuildPreferencesMinProbabilityFilter(t *testing.T) {
	prefs := BuildPreferences(1200, testCutoffs(), 95)

	require.Len(t, prefs, 1)
	assert.Equal(t, "IIT Bombay", prefs[0].Institute)
	assert.GreaterOrEqual(t, prefs[0].Probability, 95.0)
}

func TestBuildPreferencesMinProbabilityBoundaryInclusive(t *testing.T) {
	// A rank far below the opening scores exactly 100; the threshold is
	// inclusive, so min_probability == 100 still keeps the row
	cutoffs := []models.Cutoff{
		{Institute: "NIT Trichy", Program: "Computer Science", Category: "OPEN", OpeningRank: 1000, ClosingRank: 2000, Round: "6"},
	}

	prefs := BuildPreferences(100, cutoffs, 100)
	require.Len(t, prefs, 1)
	assert.Equal(t, 100.0, prefs[0].Probability)

	prefs = BuildPreferences(100, cutoffs, 100.01)
	assert.Empty(t, prefs)
}

func TestBuildPreferencesEmptyInput(t *testing.T) {
	prefs := BuildPreferences(1200, nil, 0)
	assert.Empty(t, prefs)
}

func TestSummarize(t *testing.T) {
	prefs := []models.CollegePreference{
		{AdmissionChances: ChanceVeryHigh},
		{AdmissionChances: ChanceVeryHigh},
		{AdmissionChances: ChanceHigh},
		{AdmissionChances: ChanceModerate},
		{AdmissionChances: ChanceVeryLow},
	}

	summary := Summarize(prefs)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.VeryHigh)
	assert.Equal(t, 1, summary.High)
	assert.Equal(t, 1, summary.Moderate)
	assert.Equal(t, 0, summary.Low)
	assert.Equal(t, 1, summary.VeryLow)
}
