package utils

import (
	"testing"

	"josaa-predictor/models"
	"josaa-predictor/predictor"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("student@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@iit.ac.in"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("rahul_2024"))
	assert.NoError(t, ValidateUsername("a.b-c"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has spaces"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))

	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
}

func TestValidatePredictionRequest(t *testing.T) {
	valid := models.PredictionRequest{
		JEERank:  15000,
		Category: "OPEN",
		Round:    "6",
	}
	assert.NoError(t, ValidatePredictionRequest(&valid))

	tests := []struct {
		name   string
		mutate func(r *models.PredictionRequest)
	}{
		{"zero rank", func(r *models.PredictionRequest) { r.JEERank = 0 }},
		{"negative rank", func(r *models.PredictionRequest) { r.JEERank = -5 }},
		{"rank too large", func(r *models.PredictionRequest) { r.JEERank = MaxJEERank + 1 }},
		{"missing category", func(r *models.PredictionRequest) { r.Category = "" }},
		{"unknown category", func(r *models.PredictionRequest) { r.Category = "GENERAL" }},
		{"missing round", func(r *models.PredictionRequest) { r.Round = "" }},
		{"min probability negative", func(r *models.PredictionRequest) { r.MinProbability = -1 }},
		{"min probability above 100", func(r *models.PredictionRequest) { r.MinProbability = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, ValidatePredictionRequest(&req))
		})
	}
}

func TestValidateCutoff(t *testing.T) {
	valid := models.Cutoff{
		Institute:   "NIT Trichy",
		Program:     "Computer Science and Engineering",
		Category:    "OPEN",
		Round:       "6",
		OpeningRank: 100,
		ClosingRank: 500,
	}
	assert.NoError(t, ValidateCutoff(&valid))

	inverted := valid
	inverted.OpeningRank = 600
	assert.Error(t, ValidateCutoff(&inverted))

	negative := valid
	negative.OpeningRank = -1
	assert.Error(t, ValidateCutoff(&negative))

	noInstitute := valid
	noInstitute.Institute = ""
	assert.Error(t, ValidateCutoff(&noInstitute))
}

func TestValidateCutoffKeepsSentinelRanks(t *testing.T) {
	// Unparseable cells become the sentinel; such rows must stay importable
	// even when the sentinel lands in the opening rank
	valid := models.Cutoff{
		Institute: "NIT Trichy",
		Program:   "Computer Science and Engineering",
		Category:  "OPEN",
		Round:     "6",
	}

	sentinelOpening := valid
	sentinelOpening.OpeningRank = predictor.MissingRank
	sentinelOpening.ClosingRank = 350
	assert.NoError(t, ValidateCutoff(&sentinelOpening))

	sentinelClosing := valid
	sentinelClosing.OpeningRank = 100
	sentinelClosing.ClosingRank = predictor.MissingRank
	assert.NoError(t, ValidateCutoff(&sentinelClosing))

	bothSentinel := valid
	bothSentinel.OpeningRank = predictor.MissingRank
	bothSentinel.ClosingRank = predictor.MissingRank
	assert.NoError(t, ValidateCutoff(&bothSentinel))
}

func TestDeduplicateCutoffs(t *testing.T) {
	rows := []models.Cutoff{
		{Institute: "NIT Trichy", Program: "CSE", Category: "OPEN", Round: "6", ClosingRank: 500},
		{Institute: "NIT Trichy", Program: "CSE", Category: "OPEN", Round: "6", ClosingRank: 700},
		{Institute: "NIT Trichy", Program: "ECE", Category: "OPEN", Round: "6", ClosingRank: 900},
	}

	deduped := DeduplicateCutoffs(rows)

	assert.Len(t, deduped, 2)
	// First row wins on duplicate keys
	assert.Equal(t, 500.0, deduped[0].ClosingRank)
}
