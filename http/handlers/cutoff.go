package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"josaa-predictor/config"
	"josaa-predictor/db"
	resp "josaa-predictor/http/response"
	httpservices "josaa-predictor/http/services"
	"josaa-predictor/models"
	"josaa-predictor/utils"
)

// CutoffService encapsulates cutoff dataset operations
type CutoffService struct {
	db *sql.DB
}

func NewCutoffService(database *sql.DB) *CutoffService {
	return &CutoffService{db: database}
}

// UploadCutoffs handles bulk cutoff upload via Excel file
func (s *CutoffService) UploadCutoffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		respondError(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	log.Printf("Processing cutoff upload: %s", header.Filename)

	year := 0
	if y := r.FormValue("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}

	// Create temp file with proper cleanup
	tempFile, err := os.CreateTemp("", "cutoffs_*.xlsx")
	if err != nil {
		log.Printf("Error creating temp file: %v", err)
		respondError(w, "Error processing file", http.StatusInternalServerError)
		return
	}
	tempFilePath := tempFile.Name()
	defer func() {
		tempFile.Close()
		os.Remove(tempFilePath)
	}()

	if _, err = io.Copy(tempFile, file); err != nil {
		log.Printf("Error copying file: %v", err)
		respondError(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	if err := tempFile.Close(); err != nil {
		log.Printf("Error closing temp file: %v", err)
	}

	cutoffs, err := httpservices.ParseCutoffSheet(tempFilePath, year)
	if err != nil {
		log.Printf("Error parsing Excel: %v", err)
		respondError(w, "Error parsing Excel: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.insertBatch(ctx, w, cutoffs)
}

// ImportCutoffs fetches the cutoff dataset from a CSV URL
func (s *CutoffService) ImportCutoffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req models.CutoffImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	url := req.URL
	if url == "" {
		url = defaultCutoffURL()
	}

	log.Printf("Importing cutoff dataset from %s", url)

	cutoffs, err := httpservices.FetchCutoffCSV(url, req.Year)
	if err != nil {
		log.Printf("Error importing CSV: %v", err)
		respondError(w, "Error importing CSV: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.insertBatch(ctx, w, cutoffs)
}

// insertBatch validates and inserts parsed cutoff rows, reporting per-row failures
func (s *CutoffService) insertBatch(ctx context.Context, w http.ResponseWriter, cutoffs []models.Cutoff) {
	// Remove duplicates within the batch
	cutoffs = utils.DeduplicateCutoffs(cutoffs)

	successCount := 0
	failedRows := []map[string]string{}

	for i, cutoff := range cutoffs {
		if err := s.insertCutoff(ctx, &cutoff); err != nil {
			log.Printf("Failed to insert cutoff %d (%s / %s): %v", i+1, cutoff.Institute, cutoff.Program, err)
			failedRows = append(failedRows, map[string]string{
				"row":       fmt.Sprintf("%d", i+2), // +2 for header row
				"institute": cutoff.Institute,
				"program":   cutoff.Program,
				"error":     err.Error(),
			})
			continue
		}
		successCount++
	}

	log.Printf("Cutoff import completed: %d successful, %d failed", successCount, len(failedRows))

	response := map[string]interface{}{
		"message":       fmt.Sprintf("Successfully imported %d cutoff rows", successCount),
		"success_count": successCount,
		"failed_count":  len(failedRows),
		"total_count":   len(cutoffs),
	}

	if len(failedRows) > 0 {
		response["failed_rows"] = failedRows
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *CutoffService) insertCutoff(ctx context.Context, cutoff *models.Cutoff) error {
	if err := utils.ValidateCutoff(cutoff); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace an existing row covering the same seat pool and cycle
	_, err = tx.ExecContext(ctx, `
		DELETE FROM cutoffs
		WHERE institute = $1 AND program = $2 AND category = $3 AND round = $4 AND year = $5`,
		cutoff.Institute, cutoff.Program, cutoff.Category, cutoff.Round, cutoff.Year)
	if err != nil {
		return fmt.Errorf("error replacing existing cutoff: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO cutoffs (institute, college_type, location, program, category, opening_rank, closing_rank, round, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		cutoff.Institute, cutoff.CollegeType, cutoff.Location, cutoff.Program,
		cutoff.Category, cutoff.OpeningRank, cutoff.ClosingRank, cutoff.Round, cutoff.Year,
	).Scan(&cutoff.ID)
	if err != nil {
		return fmt.Errorf("error inserting cutoff: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCutoffs retrieves cutoff rows with optional filters
func (s *CutoffService) GetCutoffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	filter := parseCutoffFilter(r)

	query := `
		SELECT id, institute, college_type, location, program, category,
			opening_rank, closing_rank, round, year
		FROM cutoffs
		WHERE 1=1`

	args := []interface{}{}
	argCount := 0

	if filter.Category != "" {
		argCount++
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filter.Category)
	}
	if filter.CollegeType != "" && filter.CollegeType != utils.CollegeTypeAll {
		argCount++
		query += fmt.Sprintf(" AND college_type = $%d", argCount)
		args = append(args, filter.CollegeType)
	}
	if filter.Program != "" && filter.Program != utils.BranchAll {
		argCount++
		query += fmt.Sprintf(" AND program = $%d", argCount)
		args = append(args, filter.Program)
	}
	if filter.Round != "" {
		argCount++
		query += fmt.Sprintf(" AND round = $%d", argCount)
		args = append(args, filter.Round)
	}
	if filter.Year != 0 {
		argCount++
		query += fmt.Sprintf(" AND year = $%d", argCount)
		args = append(args, filter.Year)
	}
	if filter.Institute != "" {
		argCount++
		query += fmt.Sprintf(" AND institute ILIKE $%d", argCount)
		args = append(args, "%"+filter.Institute+"%")
	}

	query += " ORDER BY closing_rank ASC"

	argCount++
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, filter.Limit)

	argCount++
	query += fmt.Sprintf(" OFFSET $%d", argCount)
	args = append(args, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching cutoffs: %v", err)
		respondError(w, "Error fetching cutoffs", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	cutoffs := []models.Cutoff{}
	for rows.Next() {
		cutoff, err := utils.ScanCutoff(rows)
		if err != nil {
			log.Printf("Error scanning cutoff: %v", err)
			respondError(w, "Error processing cutoffs", http.StatusInternalServerError)
			return
		}
		cutoffs = append(cutoffs, cutoff)
	}

	if err = rows.Err(); err != nil {
		log.Printf("Error iterating cutoffs: %v", err)
		respondError(w, "Error processing cutoffs", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp.StandardResponse{
		Status:  "success",
		Message: fmt.Sprintf("Retrieved %d cutoff rows", len(cutoffs)),
		Data: map[string]interface{}{
			"count":   len(cutoffs),
			"cutoffs": utils.ConvertCutoffsToResponse(cutoffs),
		},
	})
}

// GetBranches returns the distinct academic program names, prefixed with "All"
func (s *CutoffService) GetBranches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	branches, err := s.distinctValues(r.Context(), "program")
	if err != nil {
		log.Printf("Error fetching branches: %v", err)
		respondError(w, "Error fetching branches", http.StatusInternalServerError)
		return
	}

	resp.SuccessResponse(w, http.StatusOK,
		fmt.Sprintf("Retrieved %d branches", len(branches)),
		append([]string{utils.BranchAll}, branches...))
}

// GetInstitutes returns the distinct institute names
func (s *CutoffService) GetInstitutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	institutes, err := s.distinctValues(r.Context(), "institute")
	if err != nil {
		log.Printf("Error fetching institutes: %v", err)
		respondError(w, "Error fetching institutes", http.StatusInternalServerError)
		return
	}

	resp.SuccessResponse(w, http.StatusOK,
		fmt.Sprintf("Retrieved %d institutes", len(institutes)),
		institutes)
}

func (s *CutoffService) distinctValues(ctx context.Context, column string) ([]string, error) {
	// column is a trusted identifier picked by the caller, never user input
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM cutoffs WHERE %s <> '' ORDER BY %s ASC`, column, column, column)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// parseCutoffFilter extracts filter query parameters with pagination defaults
func parseCutoffFilter(r *http.Request) models.CutoffFilter {
	filter := models.CutoffFilter{
		Category:    r.URL.Query().Get("category"),
		CollegeType: r.URL.Query().Get("college_type"),
		Program:     r.URL.Query().Get("branch"),
		Round:       r.URL.Query().Get("round"),
		Institute:   r.URL.Query().Get("institute"),
		Limit:       100,
		Offset:      0,
	}

	if y := r.URL.Query().Get("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			filter.Year = parsed
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			filter.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	return filter
}

func defaultCutoffURL() string {
	return config.AppConfig.CutoffDataURL
}

// Public handler wrappers (package-level entry points used by the route table)
var cutoffService *CutoffService

func InitCutoffHandlers(database *sql.DB) {
	cutoffService = NewCutoffService(database)
}

func UploadCutoffs(w http.ResponseWriter, r *http.Request) {
	if cutoffService == nil {
		cutoffService = NewCutoffService(db.DB)
	}
	cutoffService.UploadCutoffs(w, r)
}

func ImportCutoffs(w http.ResponseWriter, r *http.Request) {
	if cutoffService == nil {
		cutoffService = NewCutoffService(db.DB)
	}
	cutoffService.ImportCutoffs(w, r)
}

func GetCutoffs(w http.ResponseWriter, r *http.Request) {
	if cutoffService == nil {
		cutoffService = NewCutoffService(db.DB)
	}
	cutoffService.GetCutoffs(w, r)
}

func GetBranches(w http.ResponseWriter, r *http.Request) {
	if cutoffService == nil {
		cutoffService = NewCutoffService(db.DB)
	}
	cutoffService.GetBranches(w, r)
}

func GetInstitutes(w http.ResponseWriter, r *http.Request) {
	if cutoffService == nil {
		cutoffService = NewCutoffService(db.DB)
	}
	cutoffService.GetInstitutes(w, r)
}
