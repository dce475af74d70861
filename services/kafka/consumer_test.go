package kafka

import (
	"encoding/json"
	"testing"

	"josaa-predictor/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventMessage(t *testing.T, topic string, event map[string]interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Key: []byte("test-key"), Value: payload}
}

func TestHandleKafkaMessageRoutesEmailSend(t *testing.T) {
	config.AppConfig.KafkaBrokers = ""

	var got map[string]interface{}
	RegisterEmailProcessor(func(event map[string]interface{}) error {
		got = event
		return nil
	})
	defer RegisterEmailProcessor(nil)

	msg := eventMessage(t, "emails", map[string]interface{}{
		"event":     "email.send",
		"recipient": "student@example.com",
		"subject":   "Reset your password",
		"body":      "<p>token</p>",
	})

	assert.True(t, HandleKafkaMessageForRetry(msg))
	require.NotNil(t, got)
	assert.Equal(t, "student@example.com", got["recipient"])
}

func TestHandleKafkaMessageRoutesPredictionGenerated(t *testing.T) {
	config.AppConfig.KafkaBrokers = ""

	var got map[string]interface{}
	RegisterPredictionTracker(func(event map[string]interface{}) error {
		got = event
		return nil
	})
	defer RegisterPredictionTracker(nil)

	msg := eventMessage(t, "predictions", map[string]interface{}{
		"event":        "prediction.generated",
		"user_id":      7,
		"jee_rank":     4500,
		"result_count": 12,
	})

	assert.True(t, HandleKafkaMessageForRetry(msg))
	require.NotNil(t, got)
	assert.Equal(t, float64(4500), got["jee_rank"])
}

func TestHandleKafkaMessagePredictionWithoutTracker(t *testing.T) {
	config.AppConfig.KafkaBrokers = ""
	RegisterPredictionTracker(nil)

	msg := eventMessage(t, "predictions", map[string]interface{}{
		"event":   "prediction.generated",
		"user_id": 7,
	})

	// Informational events are dropped, not dead-lettered
	assert.True(t, HandleKafkaMessageForRetry(msg))
}

func TestHandleKafkaMessageUnknownEventDeadLetters(t *testing.T) {
	// With Kafka disabled and no DB the DLQ path degrades to a warning;
	// the routing result is what matters here
	config.AppConfig.KafkaBrokers = ""

	msg := eventMessage(t, "emails", map[string]interface{}{
		"event": "user.deleted",
	})

	assert.False(t, HandleKafkaMessageForRetry(msg))
}

func TestHandleKafkaMessageMalformedPayload(t *testing.T) {
	config.AppConfig.KafkaBrokers = ""

	msg := kafka.Message{Topic: "emails", Key: []byte("k"), Value: []byte("{not json")}
	assert.False(t, HandleKafkaMessageForRetry(msg))
}
