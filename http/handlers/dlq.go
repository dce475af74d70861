package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"josaa-predictor/logger"
	"josaa-predictor/services"
)

// GetDLQMessages retrieves unresolved DLQ messages
// GET /api/dlq/messages?limit=50
func GetDLQMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Get limit from query parameter, default to 50
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	messages, err := services.GetDLQMessages(limit)
	if err != nil {
		logger.Error("Error fetching DLQ messages: %v", err)
		respondError(w, "Failed to fetch DLQ messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"count":  len(messages),
		"data":   messages,
	})
}

// RetryDLQMessage retries processing of a specific DLQ message
// POST /api/dlq/messages/retry?id=<messageId>
func RetryDLQMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	messageID := r.URL.Query().Get("id")
	if messageID == "" {
		respondError(w, "Missing message ID parameter", http.StatusBadRequest)
		return
	}

	if err := services.RetryDLQMessage(messageID); err != nil {
		logger.Error("Error retrying DLQ message %s: %v", messageID, err)
		respondError(w, "Failed to retry message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "Message retry initiated",
		"messageId": messageID,
	})
}

// ResolveDLQMessage marks a DLQ message as resolved
// POST /api/dlq/messages/resolve?id=<messageId>
func ResolveDLQMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	messageID := r.URL.Query().Get("id")
	if messageID == "" {
		respondError(w, "Missing message ID parameter", http.StatusBadRequest)
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Notes = "Manually resolved"
	}

	if err := services.ResolveDLQMessage(messageID, req.Notes); err != nil {
		logger.Error("Error resolving DLQ message %s: %v", messageID, err)
		respondError(w, "Failed to resolve message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "Message marked as resolved",
		"messageId": messageID,
	})
}

// GetDLQStats retrieves statistics about DLQ messages
// GET /api/dlq/stats
func GetDLQStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := services.GetDLQStats()
	if err != nil {
		logger.Error("Error fetching DLQ statistics: %v", err)
		respondError(w, "Failed to fetch DLQ statistics: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}
