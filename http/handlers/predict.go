package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"josaa-predictor/db"
	apperrors "josaa-predictor/errors"
	"josaa-predictor/http/middleware"
	resp "josaa-predictor/http/response"
	httpservices "josaa-predictor/http/services"
	"josaa-predictor/models"
	"josaa-predictor/predictor"
	"josaa-predictor/services"
	"josaa-predictor/utils"
)

// PredictionService encapsulates preference list generation
type PredictionService struct {
	db *sql.DB
}

func NewPredictionService(database *sql.DB) *PredictionService {
	return &PredictionService{db: database}
}

// Predict generates a ranked college preference list for the caller
func (s *PredictionService) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	req, result, err := s.generate(ctx, r)
	if err != nil {
		status, msg := statusForError(err)
		respondError(w, msg, status)
		return
	}

	// Audit the request; failure here must not lose the result
	if err := s.recordPrediction(ctx, userID, req, len(result.Preferences)); err != nil {
		log.Printf("Warning: failed to record prediction for user %d: %v", userID, err)
	}

	services.PublishPredictionGeneratedEvent(userID, req, len(result.Preferences))

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: fmt.Sprintf("Generated %d preferences", len(result.Preferences)),
		Data:    result,
	})
}

// ExportPreferencesPDF renders a preference list as a downloadable PDF report
func (s *PredictionService) ExportPreferencesPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, result, err := s.generate(r.Context(), r)
	if err != nil {
		status, msg := statusForError(err)
		respondError(w, msg, status)
		return
	}

	pdfBytes, err := httpservices.GeneratePreferencePDF(req.JEERank, req.Category, req.Round, result.Preferences)
	if err != nil {
		log.Printf("Error generating preference PDF: %v", err)
		respondError(w, "Error generating PDF report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="josaa_preferences_%d.pdf"`, req.JEERank))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

// ExportPreferencesExcel renders a preference list as a downloadable workbook
func (s *PredictionService) ExportPreferencesExcel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, result, err := s.generate(r.Context(), r)
	if err != nil {
		status, msg := statusForError(err)
		respondError(w, msg, status)
		return
	}

	buf, err := httpservices.ExportPreferencesExcel(result.Preferences)
	if err != nil {
		log.Printf("Error generating preference workbook: %v", err)
		respondError(w, "Error generating Excel report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="josaa_preferences_%d.xlsx"`, req.JEERank))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing workbook response: %v", err)
	}
}

// GetPredictions returns the caller's prediction history
func (s *PredictionService) GetPredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, jee_rank, category, college_type, preferred_branch,
			round, min_probability, result_count, created_at
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 50`, userID)
	if err != nil {
		log.Printf("Error fetching predictions: %v", err)
		respondError(w, "Error fetching predictions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		p, err := utils.ScanPrediction(rows)
		if err != nil {
			log.Printf("Error scanning prediction: %v", err)
			respondError(w, "Error processing predictions", http.StatusInternalServerError)
			return
		}
		predictions = append(predictions, p)
	}

	if err = rows.Err(); err != nil {
		log.Printf("Error iterating predictions: %v", err)
		respondError(w, "Error processing predictions", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: fmt.Sprintf("Retrieved %d predictions", len(predictions)),
		Data:    utils.ConvertPredictionsToResponse(predictions),
	})
}

// statusForError maps an error kind to an HTTP status and client message
func statusForError(err error) (int, string) {
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		switch appErr.Kind {
		case apperrors.Invalid:
			return http.StatusBadRequest, appErr.Message
		case apperrors.NotFound:
			return http.StatusNotFound, appErr.Message
		case apperrors.Unauthorized:
			return http.StatusUnauthorized, appErr.Message
		}
		return http.StatusInternalServerError, appErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}

// generate decodes and validates a prediction request, loads the matching
// cutoff rows and scores them.
func (s *PredictionService) generate(ctx context.Context, r *http.Request) (models.PredictionRequest, *models.PredictionResult, error) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, apperrors.NewInvalidParamsError("Invalid JSON: " + err.Error())
	}

	if err := utils.ValidatePredictionRequest(&req); err != nil {
		return req, nil, apperrors.NewInvalidParamsError(err.Error())
	}

	cutoffs, err := s.loadCutoffs(ctx, req)
	if err != nil {
		log.Printf("Error loading cutoffs for prediction: %v", err)
		return req, nil, apperrors.NewInternalServerError("error loading cutoff data")
	}

	preferences := predictor.BuildPreferences(req.JEERank, cutoffs, req.MinProbability)

	return req, &models.PredictionResult{
		Preferences: preferences,
		Summary:     predictor.Summarize(preferences),
	}, nil
}

func (s *PredictionService) loadCutoffs(ctx context.Context, req models.PredictionRequest) ([]models.Cutoff, error) {
	query := `
		SELECT id, institute, college_type, location, program, category,
			opening_rank, closing_rank, round, year
		FROM cutoffs
		WHERE category = $1 AND round = $2`

	args := []interface{}{req.Category, req.Round}
	argCount := 2

	if req.CollegeType != "" && req.CollegeType != utils.CollegeTypeAll {
		argCount++
		query += fmt.Sprintf(" AND college_type = $%d", argCount)
		args = append(args, req.CollegeType)
	}
	if req.PreferredBranch != "" && req.PreferredBranch != utils.BranchAll {
		argCount++
		query += fmt.Sprintf(" AND program = $%d", argCount)
		args = append(args, req.PreferredBranch)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cutoffs := []models.Cutoff{}
	for rows.Next() {
		cutoff, err := utils.ScanCutoff(rows)
		if err != nil {
			return nil, err
		}
		cutoffs = append(cutoffs, cutoff)
	}

	return cutoffs, rows.Err()
}

func (s *PredictionService) recordPrediction(ctx context.Context, userID int, req models.PredictionRequest, resultCount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (user_id, jee_rank, category, college_type, preferred_branch, round, min_probability, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, req.JEERank, req.Category, req.CollegeType, req.PreferredBranch,
		req.Round, req.MinProbability, resultCount, time.Now().UTC())
	return err
}

// Public handler wrappers (package-level entry points used by the route table)
var predictionService *PredictionService

func InitPredictionHandlers(database *sql.DB) {
	predictionService = NewPredictionService(database)
}

func Predict(w http.ResponseWriter, r *http.Request) {
	if predictionService == nil {
		predictionService = NewPredictionService(db.DB)
	}
	predictionService.Predict(w, r)
}

func GetPredictions(w http.ResponseWriter, r *http.Request) {
	if predictionService == nil {
		predictionService = NewPredictionService(db.DB)
	}
	predictionService.GetPredictions(w, r)
}

func ExportPreferencesPDF(w http.ResponseWriter, r *http.Request) {
	if predictionService == nil {
		predictionService = NewPredictionService(db.DB)
	}
	predictionService.ExportPreferencesPDF(w, r)
}

func ExportPreferencesExcel(w http.ResponseWriter, r *http.Request) {
	if predictionService == nil {
		predictionService = NewPredictionService(db.DB)
	}
	predictionService.ExportPreferencesExcel(w, r)
}
