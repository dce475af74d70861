package main

import (
	"fmt"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"josaa-predictor/config"
	"josaa-predictor/db"
	"josaa-predictor/http"
	"josaa-predictor/http/handlers"
	"josaa-predictor/logger"
	"josaa-predictor/services"
)

func main() {
	// Determine project root by searching upward for go.mod
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting current working directory:", err)
	}

	absProjectRoot := findProjectRoot(cwd)
	if absProjectRoot == "" {
		log.Fatalf("Could not locate project root (go.mod) from %s", cwd)
	}

	if err := os.Chdir(absProjectRoot); err != nil {
		log.Fatal("Error changing to project root:", err)
	}
	logger.Info("Working directory set to project root: %s", absProjectRoot)

	// Load configuration
	config.LoadConfig()

	// Initialize Kafka producers (non-fatal)
	services.InitProducer()
	services.InitDLQProducer()

	// Initialize database
	if err := db.InitDB(); err != nil {
		logger.Fatal("Error initializing database: %v", err)
	}

	// Wire handler services to the live connection
	handlers.InitAuthHandlers(db.DB)
	handlers.InitCutoffHandlers(db.DB)
	handlers.InitPredictionHandlers(db.DB)

	// Route queued email events to the SMTP sender
	services.RegisterEmailProcessor(func(event map[string]interface{}) error {
		recipient, _ := event["recipient"].(string)
		subject, _ := event["subject"].(string)
		body, _ := event["body"].(string)
		return services.SendEmailDirect(recipient, subject, body)
	})

	// Log consumed prediction events
	services.RegisterPredictionTracker(func(event map[string]interface{}) error {
		logger.Info("Prediction generated: user=%v rank=%v results=%v",
			event["user_id"], event["jee_rank"], event["result_count"])
		return nil
	})

	// Start consuming queued events
	if err := services.InitConsumer(); err != nil {
		logger.Error("Error initializing Kafka consumer: %v", err)
	}
	services.StartConsumer()
	services.StartDLQAutoRetry()

	// Setup routes
	http.SetupRoutes()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", config.AppConfig.ServerPort)
		logger.Info("Server starting on %s", addr)
		log.Fatal(netHttp.ListenAndServe(addr, nil))
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, stopping background workers...")

	services.StopDLQAutoRetry()

	if err := services.StopConsumer(); err != nil {
		logger.Error("Error stopping Kafka consumer: %v", err)
	}

	// Close Kafka producer gracefully
	if err := services.Close(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}

	logger.Info("Server shutdown complete")
}

// findProjectRoot walks up from start and returns the first directory containing go.mod
func findProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || strings.HasSuffix(dir, ":\\") || parent == "" {
			break
		}
		dir = parent
	}
	return ""
}
