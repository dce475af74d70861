package utils

import (
	"database/sql"
	"log"

	"josaa-predictor/models"
)

// DeduplicateCutoffs removes duplicate rows within the same import batch.
// Two rows are duplicates when they describe the same seat pool: same
// institute, program, category and round.
func DeduplicateCutoffs(cutoffs []models.Cutoff) []models.Cutoff {
	seen := make(map[string]bool)
	unique := []models.Cutoff{}

	for _, c := range cutoffs {
		key := c.Institute + "|" + c.Program + "|" + c.Category + "|" + c.Round
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}

	if len(unique) < len(cutoffs) {
		log.Printf("Removed %d duplicate cutoff rows from batch", len(cutoffs)-len(unique))
	}

	return unique
}

// ScanCutoff reads a single cutoff row from database query results
func ScanCutoff(rows *sql.Rows) (models.Cutoff, error) {
	var c models.Cutoff
	var location sql.NullString

	err := rows.Scan(
		&c.ID, &c.Institute, &c.CollegeType, &location,
		&c.Program, &c.Category, &c.OpeningRank, &c.ClosingRank,
		&c.Round, &c.Year,
	)
	if err != nil {
		return c, err
	}

	if location.Valid {
		c.Location = location.String
	}

	return c, nil
}

// ScanPrediction reads a single prediction audit row from query results
func ScanPrediction(rows *sql.Rows) (models.Prediction, error) {
	var p models.Prediction
	var userID sql.NullInt64

	err := rows.Scan(
		&p.ID, &userID, &p.JEERank, &p.Category, &p.CollegeType,
		&p.PreferredBranch, &p.Round, &p.MinProbability,
		&p.ResultCount, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	if userID.Valid {
		p.UserID = int(userID.Int64)
	}

	return p, nil
}

// ConvertCutoffsToResponse converts a slice of Cutoff for API responses
func ConvertCutoffsToResponse(cutoffs []models.Cutoff) []models.CutoffResponse {
	responses := make([]models.CutoffResponse, len(cutoffs))
	for i := range cutoffs {
		responses[i] = cutoffs[i].ToResponse()
	}
	return responses
}

// ConvertPredictionsToResponse converts prediction audit rows for API responses
func ConvertPredictionsToResponse(predictions []models.Prediction) []models.PredictionHistoryResponse {
	responses := make([]models.PredictionHistoryResponse, len(predictions))
	for i := range predictions {
		responses[i] = predictions[i].ToResponse()
	}
	return responses
}
