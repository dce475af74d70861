package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// StandardResponse is the JSON envelope every endpoint returns: a status
// flag ("success" or "error"), an optional human-readable message, the
// payload, and the error text on failures.
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendJSON writes data as a JSON body with the given status code
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// SuccessResponse writes a success envelope carrying message and payload
func SuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	SendJSON(w, statusCode, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error envelope with the given status code
func ErrorResponse(w http.ResponseWriter, statusCode int, errorMsg string) {
	SendJSON(w, statusCode, StandardResponse{
		Status: "error",
		Error:  errorMsg,
	})
}
