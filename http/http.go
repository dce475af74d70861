package http

import (
	"net/http"

	"josaa-predictor/http/handlers"
	"josaa-predictor/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware
func SetupRoutes() {
	// Auth APIs
	http.HandleFunc("/signup", middleware.EnableCORS(handlers.Signup))
	http.HandleFunc("/login", middleware.EnableCORS(handlers.Login))
	http.HandleFunc("/profile", middleware.EnableCORS(middleware.RequireAuth(handlers.Profile)))
	http.HandleFunc("/request-password-reset", middleware.EnableCORS(handlers.RequestPasswordReset))
	http.HandleFunc("/reset-password", middleware.EnableCORS(handlers.ResetPassword))

	// Cutoff Dataset APIs
	http.HandleFunc("/upload-cutoffs", middleware.EnableCORS(middleware.RequireAuth(handlers.UploadCutoffs)))
	http.HandleFunc("/import-cutoffs", middleware.EnableCORS(middleware.RequireAuth(handlers.ImportCutoffs)))
	http.HandleFunc("/cutoffs", middleware.EnableCORS(handlers.GetCutoffs))
	http.HandleFunc("/branches", middleware.EnableCORS(handlers.GetBranches))
	http.HandleFunc("/institutes", middleware.EnableCORS(handlers.GetInstitutes))

	// Prediction APIs
	http.HandleFunc("/predict", middleware.EnableCORS(middleware.RequireAuth(handlers.Predict)))
	http.HandleFunc("/predictions", middleware.EnableCORS(middleware.RequireAuth(handlers.GetPredictions)))
	http.HandleFunc("/export/preferences/pdf", middleware.EnableCORS(middleware.RequireAuth(handlers.ExportPreferencesPDF)))
	http.HandleFunc("/export/preferences/excel", middleware.EnableCORS(middleware.RequireAuth(handlers.ExportPreferencesExcel)))

	// DLQ Management APIs
	http.HandleFunc("/api/dlq/messages", middleware.EnableCORS(handlers.GetDLQMessages))
	http.HandleFunc("/api/dlq/messages/retry", middleware.EnableCORS(handlers.RetryDLQMessage))
	http.HandleFunc("/api/dlq/messages/resolve", middleware.EnableCORS(handlers.ResolveDLQMessage))
	http.HandleFunc("/api/dlq/stats", middleware.EnableCORS(handlers.GetDLQStats))
}
