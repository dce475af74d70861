package models

// Cutoff represents one historical JOSAA allotment record: the opening and
// closing rank for a seat pool in a given counselling round.
type Cutoff struct {
	ID          int     `json:"id"`
	Institute   string  `json:"institute"`
	CollegeType string  `json:"college_type"`
	Location    string  `json:"location"`
	Program     string  `json:"program"`
	Category    string  `json:"category"`
	OpeningRank float64 `json:"opening_rank"`
	ClosingRank float64 `json:"closing_rank"`
	Round       string  `json:"round"`
	Year        int     `json:"year"`
}

// CutoffResponse is the structured response for API responses
type CutoffResponse struct {
	ID          int     `json:"id"`
	Institute   string  `json:"institute"`
	CollegeType string  `json:"college_type"`
	Location    string  `json:"location"`
	Program     string  `json:"program"`
	Category    string  `json:"category"`
	OpeningRank float64 `json:"opening_rank"`
	ClosingRank float64 `json:"closing_rank"`
	Round       string  `json:"round"`
	Year        int     `json:"year"`
}

// ToResponse converts Cutoff to CutoffResponse
func (c *Cutoff) ToResponse() CutoffResponse {
	return CutoffResponse(*c)
}

// CutoffImportRequest triggers a CSV dataset import over HTTP
type CutoffImportRequest struct {
	URL  string `json:"url"`
	Year int    `json:"year"`
}

// CutoffFilter narrows cutoff queries
type CutoffFilter struct {
	Category    string
	CollegeType string
	Program     string
	Round       string
	Year        int
	Institute   string
	Limit       int
	Offset      int
}
