package services

import (
	"testing"

	"josaa-predictor/models"
	"josaa-predictor/predictor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePreferencePDF(t *testing.T) {
	preferences := []models.CollegePreference{
		{Preference: 1, Institute: "IIT Bombay", CollegeType: "IIT", Location: "Maharashtra", Branch: "Computer Science and Engineering", OpeningRank: 1, ClosingRank: 66, Probability: 98.5, AdmissionChances: predictor.ChanceVeryHigh},
	}

	data, err := GeneratePreferencePDF(4500, "OPEN", "6", preferences)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestGeneratePreferencePDFManyRows(t *testing.T) {
	// Enough rows to force a page break with a repeated header
	var preferences []models.CollegePreference
	for i := 1; i <= 60; i++ {
		preferences = append(preferences, models.CollegePreference{
			Preference:       i,
			Institute:        "National Institute of Technology with a deliberately long display name",
			CollegeType:      "NIT",
			Location:         "Tamil Nadu",
			Branch:           "Computer Science and Engineering",
			OpeningRank:      float64(i * 100),
			ClosingRank:      float64(i*100 + 500),
			Probability:      50,
			AdmissionChances: predictor.ChanceLow,
		})
	}

	data, err := GeneratePreferencePDF(4500, "OPEN", "6", preferences)
	require.NoError(t, err)
	assert.Greater(t, len(data), 1000)
}
