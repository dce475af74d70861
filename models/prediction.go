package models

import "time"

// PredictionRequest is the payload for preference list generation
type PredictionRequest struct {
	JEERank         int     `json:"jee_rank"`
	Category        string  `json:"category"`
	CollegeType     string  `json:"college_type"`
	PreferredBranch string  `json:"preferred_branch"`
	Round           string  `json:"round"`
	MinProbability  float64 `json:"min_probability"`
}

// CollegePreference is one entry of a generated preference list
type CollegePreference struct {
	Preference       int     `json:"preference"`
	Institute        string  `json:"institute"`
	CollegeType      string  `json:"college_type"`
	Location         string  `json:"location"`
	Branch           string  `json:"branch"`
	OpeningRank      float64 `json:"opening_rank"`
	ClosingRank      float64 `json:"closing_rank"`
	Probability      float64 `json:"admission_probability"`
	AdmissionChances string  `json:"admission_chances"`
}

// PredictionResult is the full prediction output
type PredictionResult struct {
	Preferences []CollegePreference `json:"preferences"`
	Summary     PredictionSummary   `json:"summary"`
}

// PredictionSummary buckets the preference list by chance bands
type PredictionSummary struct {
	Total     int `json:"total"`
	VeryHigh  int `json:"very_high"`
	High      int `json:"high"`
	Moderate  int `json:"moderate"`
	Low       int `json:"low"`
	VeryLow   int `json:"very_low"`
}

// Prediction is the persisted audit record of a prediction request
type Prediction struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	JEERank         int       `json:"jee_rank"`
	Category        string    `json:"category"`
	CollegeType     string    `json:"college_type"`
	PreferredBranch string    `json:"preferred_branch"`
	Round           string    `json:"round"`
	MinProbability  float64   `json:"min_probability"`
	ResultCount     int       `json:"result_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// PredictionHistoryResponse is the structured response for API responses
type PredictionHistoryResponse struct {
	ID              int     `json:"id"`
	JEERank         int     `json:"jee_rank"`
	Category        string  `json:"category"`
	CollegeType     string  `json:"college_type"`
	PreferredBranch string  `json:"preferred_branch"`
	Round           string  `json:"round"`
	MinProbability  float64 `json:"min_probability"`
	ResultCount     int     `json:"result_count"`
	CreatedAt       string  `json:"created_at"`
}

// ToResponse converts Prediction to PredictionHistoryResponse with formatted timestamps
func (p *Prediction) ToResponse() PredictionHistoryResponse {
	return PredictionHistoryResponse{
		ID:              p.ID,
		JEERank:         p.JEERank,
		Category:        p.Category,
		CollegeType:     p.CollegeType,
		PreferredBranch: p.PreferredBranch,
		Round:           p.Round,
		MinProbability:  p.MinProbability,
		ResultCount:     p.ResultCount,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}
