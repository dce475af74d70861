package services

import (
	"fmt"
	"log"
	"time"

	"josaa-predictor/models"
)

// PredictionGeneratedEvent represents a completed prediction for Kafka
type PredictionGeneratedEvent struct {
	EventID     string    `json:"event_id"`
	Event       string    `json:"event"` // "prediction.generated"
	UserID      int       `json:"user_id"`
	JEERank     int       `json:"jee_rank"`
	Category    string    `json:"category"`
	CollegeType string    `json:"college_type"`
	Round       string    `json:"round"`
	ResultCount int       `json:"result_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// PublishPredictionGeneratedEvent publishes a prediction.generated event to
// Kafka. Non-blocking, best-effort: a publish failure never fails the
// prediction request itself.
func PublishPredictionGeneratedEvent(userID int, req models.PredictionRequest, resultCount int) {
	event := PredictionGeneratedEvent{
		EventID:     fmt.Sprintf("prediction-%d-%d", userID, time.Now().UnixNano()),
		Event:       "prediction.generated",
		UserID:      userID,
		JEERank:     req.JEERank,
		Category:    req.Category,
		CollegeType: req.CollegeType,
		Round:       req.Round,
		ResultCount: resultCount,
		Timestamp:   time.Now().UTC(),
	}

	// Keyed by user ID for partitioning
	go func() {
		if err := Publish("predictions", fmt.Sprintf("user-%d", userID), event); err != nil {
			log.Printf("Warning: failed to publish prediction.generated event for user %d: %v", userID, err)
		} else {
			log.Printf("✅ Published prediction.generated event for user %d (%d results)", userID, resultCount)
		}
	}()
}
