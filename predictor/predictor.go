// Package predictor implements the admission probability model used to
// build college preference lists from historical JOSAA cutoff data.
package predictor

import (
	"math"
	"sort"

	"josaa-predictor/models"
)

// MissingRank is the sentinel stored for cutoff ranks that could not be
// parsed from the source dataset. It pushes such rows to zero probability.
const MissingRank = 9999999

// Admission chance labels by probability band
const (
	ChanceVeryHigh = "Very High Chance"
	ChanceHigh     = "High Chance"
	ChanceModerate = "Moderate Chance"
	ChanceLow      = "Low Chance"
	ChanceVeryLow  = "Very Low Chance"
	ChanceNone     = "No Chance"
)

// HybridProbability estimates the admission probability (0-100) for a JEE
// rank against a cutoff window. It blends a logistic curve centered on the
// window midpoint with a piecewise score keyed to the rank's position
// inside the window; the blend weights shift depending on whether the rank
// falls before, inside or past the window.
func HybridProbability(rank, opening, closing float64) float64 {
	mid := (opening + closing) / 2
	spread := (closing - opening) / 10
	if spread == 0 {
		spread = 1
	}
	logistic := 100 / (1 + math.Exp((rank-mid)/spread))

	var piecewise float64
	switch {
	case rank < opening:
		improvement := (opening - rank) / opening
		if improvement >= 0.5 {
			piecewise = 99.0
		} else {
			piecewise = 96 + improvement*6
		}
	case rank == opening:
		piecewise = 95.0
	case rank < closing:
		position := (rank - opening) / (closing - opening)
		switch {
		case position <= 0.2:
			piecewise = 94 - position*70
		case position <= 0.5:
			piecewise = 80 - (position-0.2)/0.3*20
		case position <= 0.8:
			piecewise = 60 - (position-0.5)/0.3*20
		default:
			piecewise = 40 - (position-0.8)/0.2*20
		}
	case rank == closing:
		piecewise = 15.0
	case rank <= closing+10:
		piecewise = 5.0
	default:
		piecewise = 0.0
	}

	var final float64
	switch {
	case rank < opening:
		improvement := (opening - rank) / opening
		if improvement > 0.5 {
			final = math.Max(logistic, 95)
		} else {
			final = logistic*0.4 + piecewise*0.6
		}
	case rank <= closing:
		final = logistic*0.7 + piecewise*0.3
	case rank > closing+100:
		final = 0.0
	default:
		final = math.Min(logistic, 5)
	}

	return math.Round(final*100) / 100
}

// Interpretation maps a probability to its admission chance label
func Interpretation(probability float64) string {
	switch {
	case probability >= 95:
		return ChanceVeryHigh
	case probability >= 80:
		return ChanceHigh
	case probability >= 60:
		return ChanceModerate
	case probability >= 40:
		return ChanceLow
	case probability > 0:
		return ChanceVeryLow
	default:
		return ChanceNone
	}
}

// BuildPreferences scores every cutoff row against the JEE rank, drops rows
// scoring zero or below minProbability, and returns the
// remaining entries ordered best-first with preference numbers assigned
// from 1. Ties on probability are broken by the lower closing rank.
func BuildPreferences(jeeRank int, cutoffs []models.Cutoff, minProbability float64) []models.CollegePreference {
	rank := float64(jeeRank)
	preferences := []models.CollegePreference{}

	for _, c := range cutoffs {
		probability := HybridProbability(rank, c.OpeningRank, c.ClosingRank)
		if probability <= 0 || probability < minProbability {
			continue
		}

		preferences = append(preferences, models.CollegePreference{
			Institute:        c.Institute,
			CollegeType:      c.CollegeType,
			Location:         c.Location,
			Branch:           c.Program,
			OpeningRank:      c.OpeningRank,
			ClosingRank:      c.ClosingRank,
			Probability:      probability,
			AdmissionChances: Interpretation(probability),
		})
	}

	sort.SliceStable(preferences, func(i, j int) bool {
		if preferences[i].Probability != preferences[j].Probability {
			return preferences[i].Probability > preferences[j].Probability
		}
		return preferences[i].ClosingRank < preferences[j].ClosingRank
	})

	for i := range preferences {
		preferences[i].Preference = i + 1
	}

	return preferences
}

// Summarize buckets a preference list into chance bands
func Summarize(preferences []models.CollegePreference) models.PredictionSummary {
	summary := models.PredictionSummary{Total: len(preferences)}
	for _, p := range preferences {
		switch p.AdmissionChances {
		case ChanceVeryHigh:
			summary.VeryHigh++
		case ChanceHigh:
			summary.High++
		case ChanceModerate:
			summary.Moderate++
		case ChanceLow:
			summary.Low++
		case ChanceVeryLow:
			summary.VeryLow++
		}
	}
	return summary
}
