package services

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	"josaa-predictor/models"
	"josaa-predictor/predictor"

	"github.com/xuri/excelize/v2"
)

// ParseCutoffSheet reads an Excel workbook of JOSAA cutoff rows with
// flexible column detection. Rows missing required fields are skipped and
// logged; unparseable ranks are coerced to the missing-rank sentinel.
func ParseCutoffSheet(filePath string, year int) ([]models.Cutoff, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Get first available sheet
	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheetName := sheetList[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data in sheet")
	}

	// Auto-detect column order from headers
	colIndices := detectColumns(rows[0])
	for _, required := range []string{"institute", "program", "category", "opening_rank", "closing_rank", "round"} {
		if colIndices[required] == -1 {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var cutoffs []models.Cutoff

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows
		if len(row) == 0 {
			continue
		}

		institute := extractField(row, colIndices["institute"])
		program := extractField(row, colIndices["program"])
		category := extractField(row, colIndices["category"])
		round := extractField(row, colIndices["round"])

		if institute == "" || program == "" || category == "" || round == "" {
			log.Printf("Row %d: missing required fields, skipping", i+1)
			continue
		}

		cutoff := models.Cutoff{
			Institute:   institute,
			CollegeType: extractField(row, colIndices["college_type"]),
			Location:    extractField(row, colIndices["location"]),
			Program:     program,
			Category:    category,
			OpeningRank: parseRank(extractField(row, colIndices["opening_rank"])),
			ClosingRank: parseRank(extractField(row, colIndices["closing_rank"])),
			Round:       round,
			Year:        year,
		}

		if y := extractField(row, colIndices["year"]); y != "" {
			if parsed, err := strconv.Atoi(y); err == nil {
				cutoff.Year = parsed
			}
		}

		cutoffs = append(cutoffs, cutoff)
	}

	return cutoffs, nil
}

// detectColumns finds column indices by matching header names
func detectColumns(headers []string) map[string]int {
	indices := map[string]int{
		"institute":    -1,
		"college_type": -1,
		"location":     -1,
		"program":      -1,
		"category":     -1,
		"opening_rank": -1,
		"closing_rank": -1,
		"round":        -1,
		"year":         -1,
	}

	for i, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))

		switch {
		case lower == "institute" || lower == "institute name" || lower == "college":
			indices["institute"] = i
		case lower == "college type" || lower == "institute type" || lower == "type":
			indices["college_type"] = i
		case lower == "location" || lower == "state" || lower == "city":
			indices["location"] = i
		case lower == "academic program name" || lower == "program" || lower == "branch":
			indices["program"] = i
		case lower == "category" || lower == "seat category":
			indices["category"] = i
		case lower == "opening rank" || lower == "or":
			indices["opening_rank"] = i
		case lower == "closing rank" || lower == "cr":
			indices["closing_rank"] = i
		case lower == "round" || lower == "round no":
			indices["round"] = i
		case lower == "year":
			indices["year"] = i
		}
	}

	return indices
}

// extractField safely gets a field from a row by index
func extractField(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// parseRank converts a rank cell to a number. JOSAA exports carry
// non-numeric markers (PwD suffixes, blanks) which become the sentinel so
// the probability model scores them as unreachable.
func parseRank(value string) float64 {
	if value == "" {
		return predictor.MissingRank
	}
	rank, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return predictor.MissingRank
	}
	return rank
}

// ExportPreferencesExcel renders a preference list as an .xlsx workbook
func ExportPreferencesExcel(preferences []models.CollegePreference) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Preferences"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Preference", "Institute", "College Type", "Location", "Branch",
		"Opening Rank", "Closing Rank", "Admission Probability (%)", "Admission Chances",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, p := range preferences {
		values := []interface{}{
			p.Preference, p.Institute, p.CollegeType, p.Location, p.Branch,
			p.OpeningRank, p.ClosingRank, p.Probability, p.AdmissionChances,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
