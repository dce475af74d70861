package services

import (
	"path/filepath"
	"testing"

	"josaa-predictor/models"
	"josaa-predictor/predictor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "cutoffs.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseCutoffSheet(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"Institute", "College Type", "Location", "Academic Program Name", "Category", "Opening Rank", "Closing Rank", "Round", "Year"},
		{"NIT Trichy", "NIT", "Tamil Nadu", "Computer Science and Engineering", "OPEN", 100, 500, 6, 2023},
		{"IIT Delhi", "IIT", "Delhi", "Electrical Engineering", "OPEN", "18P", "abc", 6, ""},
	})

	cutoffs, err := ParseCutoffSheet(path, 2024)
	require.NoError(t, err)
	require.Len(t, cutoffs, 2)

	first := cutoffs[0]
	assert.Equal(t, "NIT Trichy", first.Institute)
	assert.Equal(t, "Computer Science and Engineering", first.Program)
	assert.Equal(t, 100.0, first.OpeningRank)
	assert.Equal(t, 500.0, first.ClosingRank)
	assert.Equal(t, "6", first.Round)
	// A year column in the sheet overrides the import year
	assert.Equal(t, 2023, first.Year)

	second := cutoffs[1]
	assert.Equal(t, float64(predictor.MissingRank), second.OpeningRank)
	assert.Equal(t, float64(predictor.MissingRank), second.ClosingRank)
	assert.Equal(t, 2024, second.Year)
}

func TestParseCutoffSheetMissingColumn(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"Institute", "Category", "Opening Rank", "Closing Rank", "Round"},
		{"NIT Trichy", "OPEN", 100, 500, 6},
	})

	_, err := ParseCutoffSheet(path, 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program")
}

func TestParseCutoffSheetSkipsIncompleteRows(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"Institute", "Academic Program Name", "Category", "Opening Rank", "Closing Rank", "Round"},
		{"NIT Trichy", "CSE", "OPEN", 100, 500, 6},
		{"", "CSE", "OPEN", 100, 500, 6},
	})

	cutoffs, err := ParseCutoffSheet(path, 2024)
	require.NoError(t, err)
	assert.Len(t, cutoffs, 1)
}

func TestParseRank(t *testing.T) {
	assert.Equal(t, 1234.0, parseRank("1234"))
	assert.Equal(t, 1234.0, parseRank("1,234"))
	assert.Equal(t, float64(predictor.MissingRank), parseRank(""))
	assert.Equal(t, float64(predictor.MissingRank), parseRank("207P"))
}

func TestExportPreferencesExcel(t *testing.T) {
	preferences := []models.CollegePreference{
		{Preference: 1, Institute: "IIT Bombay", CollegeType: "IIT", Location: "Maharashtra", Branch: "Computer Science", OpeningRank: 1, ClosingRank: 66, Probability: 98.5, AdmissionChances: predictor.ChanceVeryHigh},
		{Preference: 2, Institute: "NIT Trichy", CollegeType: "NIT", Location: "Tamil Nadu", Branch: "Computer Science", OpeningRank: 100, ClosingRank: 500, Probability: 72.1, AdmissionChances: predictor.ChanceModerate},
	}

	buf, err := ExportPreferencesExcel(preferences)
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Preferences")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Preference", rows[0][0])
	assert.Equal(t, "IIT Bombay", rows[1][1])
	assert.Equal(t, "NIT Trichy", rows[2][1])
}
