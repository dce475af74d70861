package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"josaa-predictor/config"
	"josaa-predictor/logger"

	"github.com/segmentio/kafka-go"
)

var (
	consumer        *kafka.Reader
	consumerMutex   sync.Mutex
	consumerRunning bool
	stopConsumer    chan bool
	// emailProcessor is a callback to handle email sending from Kafka consumer
	emailProcessor func(map[string]interface{}) error
	// predictionTracker is a callback to record prediction.generated events
	predictionTracker func(map[string]interface{}) error
)

// InitConsumer initializes a Kafka reader over the event topics. The reader
// joins a consumer group so delivery survives restarts.
func InitConsumer() error {
	consumerMutex.Lock()
	defer consumerMutex.Unlock()

	if config.AppConfig.KafkaBrokers == "" {
		logger.Info("Kafka consumer is disabled (KAFKA_BROKERS is empty)")
		return nil
	}

	brokers := strings.Split(config.AppConfig.KafkaBrokers, ",")

	// Validate brokers
	var validBrokers []string
	for _, b := range brokers {
		if b := strings.TrimSpace(b); b != "" {
			validBrokers = append(validBrokers, b)
		}
	}

	if len(validBrokers) == 0 {
		logger.Warn("No valid Kafka brokers configured for consumer")
		return nil
	}

	topics := []string{"emails", "predictions"}
	consumer = kafka.NewReader(kafka.ReaderConfig{
		Brokers:          validBrokers,
		GroupTopics:      topics,
		GroupID:          "josaa-predictor-consumer-group",
		StartOffset:      -1,
		CommitInterval:   time.Second,
		MaxBytes:         10e6,
		SessionTimeout:   20 * time.Second,
		ReadBackoffMin:   100 * time.Millisecond,
		ReadBackoffMax:   1 * time.Second,
		QueueCapacity:    100,
		RebalanceTimeout: 60 * time.Second,
	})

	stopConsumer = make(chan bool)
	logger.Info("Kafka consumer initialized. Brokers=%v, Topics=%v, ConsumerGroup=josaa-predictor-consumer-group", validBrokers, topics)
	return nil
}

// RegisterEmailProcessor registers the callback function that handles email.send events
func RegisterEmailProcessor(fn func(map[string]interface{}) error) {
	consumerMutex.Lock()
	defer consumerMutex.Unlock()
	emailProcessor = fn
	logger.Info("Email processor registered")
}

// RegisterPredictionTracker registers the callback function that handles prediction.generated events
func RegisterPredictionTracker(fn func(map[string]interface{}) error) {
	consumerMutex.Lock()
	defer consumerMutex.Unlock()
	predictionTracker = fn
	logger.Info("Prediction tracker registered")
}

// StartConsumer starts consuming messages in a separate goroutine
// This runs continuously until StopConsumer() is called
func StartConsumer() {
	consumerMutex.Lock()
	if consumer == nil {
		consumerMutex.Unlock()
		logger.Warn("Consumer not initialized, cannot start")
		return
	}
	if consumerRunning {
		consumerMutex.Unlock()
		logger.Warn("Consumer already running")
		return
	}
	consumerRunning = true
	consumerMutex.Unlock()

	// Run consumer in a goroutine so it doesn't block the main server
	go consumeMessages()
	logger.Info("✅ Kafka consumer started")
}

// consumeMessages continuously reads messages from Kafka and processes them
func consumeMessages() {
	defer func() {
		consumerMutex.Lock()
		consumerRunning = false
		consumerMutex.Unlock()
	}()

	// Allow time for broker to stabilize
	time.Sleep(2 * time.Second)

	for {
		select {
		case <-stopConsumer:
			logger.Info("Consumer stop signal received")
			return
		default:
			// Read the next message with timeout
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			msg, err := consumer.ReadMessage(ctx)
			cancel()

			if err != nil {
				// Silently ignore expected errors (no messages or timeout)
				if err == context.DeadlineExceeded || err.Error() == "EOF" {
					continue
				}
				// Silently ignore group coordinator startup errors
				if strings.Contains(err.Error(), "Group Coordinator Not Available") {
					time.Sleep(500 * time.Millisecond)
					continue
				}
				// For other errors, silently retry with backoff
				time.Sleep(1 * time.Second)
				continue
			}

			handleKafkaMessage(msg)
		}
	}
}

// handleKafkaMessage processes incoming Kafka messages
// On error, messages are sent to the DLQ
func handleKafkaMessage(msg kafka.Message) {
	_ = HandleKafkaMessageForRetry(msg)
}

// HandleKafkaMessageForRetry processes incoming Kafka messages and returns whether it was successful
// Returns true if message was processed successfully (not sent to DLQ)
// Returns false if message was sent to DLQ
func HandleKafkaMessageForRetry(msg kafka.Message) bool {
	// Parse the message value as JSON
	var eventData map[string]interface{}
	err := json.Unmarshal(msg.Value, &eventData)
	if err != nil {
		logger.Error("Error unmarshaling message: %v", err)
		_ = SendToDLQ(msg.Topic, string(msg.Key), msg.Value, "Failed to unmarshal JSON: "+err.Error())
		return false
	}

	// Route to appropriate handler based on event type
	eventType, ok := eventData["event"].(string)
	if !ok {
		logger.Warn("Message does not contain event type")
		_ = SendToDLQ(msg.Topic, string(msg.Key), msg.Value, "Message does not contain valid event type")
		return false
	}

	var handlerErr error
	switch eventType {
	case "email.send":
		handlerErr = handleEmailSend(eventData)
	case "prediction.generated":
		handlerErr = handlePredictionGenerated(eventData)
	default:
		logger.Warn("Unknown event type: %s", eventType)
		_ = SendToDLQ(msg.Topic, string(msg.Key), msg.Value, "Unknown event type: "+eventType)
		return false
	}

	if handlerErr != nil {
		logger.Error("Error handling event type %s: %v", eventType, handlerErr)
		_ = SendToDLQ(msg.Topic, string(msg.Key), msg.Value, "Handler error: "+handlerErr.Error())
		return false
	}

	return true
}

// handleEmailSend processes email.send events
func handleEmailSend(event map[string]interface{}) error {
	recipient, ok := event["recipient"].(string)
	if !ok || recipient == "" {
		return fmt.Errorf("invalid recipient in email event")
	}

	subject, ok := event["subject"].(string)
	if !ok || subject == "" {
		return fmt.Errorf("invalid subject in email event")
	}

	body, ok := event["body"].(string)
	if !ok || body == "" {
		return fmt.Errorf("invalid body in email event")
	}

	logger.Info("📧 Sending email - Recipient: %s, Subject: %s", recipient, subject)

	consumerMutex.Lock()
	processor := emailProcessor
	consumerMutex.Unlock()

	if processor != nil {
		return processor(event)
	}

	return fmt.Errorf("email processor not registered")
}

// handlePredictionGenerated processes prediction.generated events
func handlePredictionGenerated(event map[string]interface{}) error {
	consumerMutex.Lock()
	tracker := predictionTracker
	consumerMutex.Unlock()

	if tracker != nil {
		return tracker(event)
	}

	// No tracker registered: the event is informational, drop it
	logger.Debug("prediction.generated event received with no tracker registered")
	return nil
}

// StopConsumer signals the consumer loop to stop and closes the reader
func StopConsumer() error {
	consumerMutex.Lock()
	defer consumerMutex.Unlock()

	if !consumerRunning {
		return nil
	}

	if stopConsumer != nil {
		close(stopConsumer)
	}

	if consumer != nil {
		return consumer.Close()
	}
	return nil
}

// IsConsumerRunning reports whether the consumer loop is active
func IsConsumerRunning() bool {
	consumerMutex.Lock()
	defer consumerMutex.Unlock()
	return consumerRunning
}
