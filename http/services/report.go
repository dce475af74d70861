package services

import (
	"bytes"
	"fmt"

	"josaa-predictor/models"

	"github.com/jung-kurt/gofpdf"
)

// GeneratePreferencePDF renders a college preference list as a PDF report.
func GeneratePreferencePDF(jeeRank int, category, round string, preferences []models.CollegePreference) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "JOSAA College Preference List")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("JEE Rank: %d    Category: %s    Round: %s", jeeRank, category, round))
	pdf.Ln(12)

	// Table header
	widths := []float64{12, 80, 20, 35, 70, 22, 22, 16}
	headers := []string{"#", "Institute", "Type", "Location", "Branch", "Opening", "Closing", "Prob %"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 230, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, p := range preferences {
		cells := []string{
			fmt.Sprintf("%d", p.Preference),
			truncate(p.Institute, 52),
			p.CollegeType,
			truncate(p.Location, 22),
			truncate(p.Branch, 45),
			fmt.Sprintf("%.0f", p.OpeningRank),
			fmt.Sprintf("%.0f", p.ClosingRank),
			fmt.Sprintf("%.2f", p.Probability),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		// Start a fresh page before running off the bottom
		if pdf.GetY() > 185 {
			pdf.AddPage()
			pdf.SetFont("Arial", "B", 9)
			for i, h := range headers {
				pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 8)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(40, 6, fmt.Sprintf("%d preferences generated from historical JOSAA cutoff data. Probabilities are estimates, not guarantees.", len(preferences)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating preference list PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
