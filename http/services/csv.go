package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"josaa-predictor/models"
)

var csvClient = &http.Client{Timeout: 60 * time.Second}

// FetchCutoffCSV downloads the historical cutoff dataset from a CSV URL
// (the published JOSAA export) and parses it into cutoff rows.
func FetchCutoffCSV(url string, year int) ([]models.Cutoff, error) {
	resp, err := csvClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("error fetching cutoff data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching cutoff data: unexpected status %d", resp.StatusCode)
	}

	return ParseCutoffCSV(resp.Body, year)
}

// ParseCutoffCSV reads cutoff rows from CSV data. Column order is detected
// from the header row with the same matching rules as the Excel parser.
func ParseCutoffCSV(r io.Reader, year int) ([]models.Cutoff, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	colIndices := detectColumns(header)
	for _, required := range []string{"institute", "program", "category", "opening_rank", "closing_rank", "round"} {
		if colIndices[required] == -1 {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var cutoffs []models.Cutoff
	rowNum := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.Printf("Row %d: malformed CSV record, skipping: %v", rowNum, err)
			continue
		}

		institute := extractField(row, colIndices["institute"])
		program := extractField(row, colIndices["program"])
		category := extractField(row, colIndices["category"])
		round := extractField(row, colIndices["round"])

		if institute == "" || program == "" || category == "" || round == "" {
			log.Printf("Row %d: missing required fields, skipping", rowNum)
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

		cutoffs = append(cutoffs, cutoff)
	}

	if len(cutoffs) == 0 {
		return nil, fmt.Errorf("no usable cutoff rows found in CSV")
	}

	return cutoffs, nil
}
