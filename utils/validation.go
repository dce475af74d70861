package utils

import (
	"fmt"
	"regexp"

	"josaa-predictor/models"
	"josaa-predictor/predictor"
)

// Email and username patterns
var (
	EmailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	UsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,50}$`)
)

// MaxJEERank bounds accepted ranks; CRL ranks beyond this are out of any
// historical cutoff window anyway.
const MaxJEERank = 2000000

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// ValidateEmail checks if email format is valid
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks if username meets requirements
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !UsernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-50 characters (letters, digits, underscore, dot, hyphen)")
	}
	return nil
}

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidatePredictionRequest checks a prediction payload before scoring
func ValidatePredictionRequest(req *models.PredictionRequest) error {
	if req.JEERank < 1 {
		return fmt.Errorf("jee_rank must be a positive integer")
	}
	if req.JEERank > MaxJEERank {
		return fmt.Errorf("jee_rank must not exceed %d", MaxJEERank)
	}
	if req.Category == "" {
		return fmt.Errorf("category is required")
	}
	if !ValidCategories[req.Category] {
		return fmt.Errorf("invalid category: %s", req.Category)
	}
	if req.Round == "" {
		return fmt.Errorf("round is required")
	}
	if req.MinProbability < 0 || req.MinProbability > 100 {
		return fmt.Errorf("min_probability must be between 0 and 100")
	}
	return nil
}

// ValidateCutoff checks an imported cutoff row
func ValidateCutoff(c *models.Cutoff) error {
	if c.Institute == "" {
		return fmt.Errorf("institute is required")
	}
	if c.Program == "" {
		return fmt.Errorf("program is required")
	}
	if c.Category == "" {
		return fmt.Errorf("category is required")
	}
	if c.Round == "" {
		return fmt.Errorf("round is required")
	}
	if c.OpeningRank < 0 || c.ClosingRank < 0 {
		return fmt.Errorf("ranks must not be negative")
	}
	// Unparseable rank cells are coerced to the missing-rank sentinel and
	// the row is kept; the window check applies only to fully numeric rows.
	if c.OpeningRank == predictor.MissingRank || c.ClosingRank == predictor.MissingRank {
		return nil
	}
	if c.OpeningRank > c.ClosingRank {
		return fmt.Errorf("opening rank %v exceeds closing rank %v", c.OpeningRank, c.ClosingRank)
	}
	return nil
}
