package utils

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

const defaultAlertTopic = "rsvp-alerts"

var alertWriter *kafka.Writer

// KafkaBrokers returns the configured broker list.
func KafkaBrokers() []string {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	return strings.Split(brokers, ",")
}

// AlertTopic returns the topic carrying host RSVP alerts.
func AlertTopic() string {
	if t := os.Getenv("KAFKA_ALERT_TOPIC"); t != "" {
		return t
	}
	return defaultAlertTopic
}

// InitializeKafka sets up the writer for the RSVP alert topic.
func InitializeKafka() {
	alertWriter = &kafka.Writer{
		Addr:         kafka.TCP(KafkaBrokers()...),
		Topic:        AlertTopic(),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		// WriteMessages runs on the RSVP response path; a down broker must
		// fail fast, not hold the request.
		WriteTimeout: 3 * time.Second,
	}
	log.Println("✅ Kafka writer initialized for topic:", AlertTopic())
}

// PublishAlert hands an RSVP alert payload to Kafka. Callers treat this as a
// fire-and-forget queue handoff; delivery to hosts happens in the consumer.
func PublishAlert(ctx context.Context, key string, payload []byte) error {
	if alertWriter == nil {
		log.Println("⚠️ Kafka writer not initialized, dropping alert")
		return nil
	}
	return alertWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// NewAlertReader builds the consumer-group reader for the alert topic.
func NewAlertReader() *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  KafkaBrokers(),
		GroupID:  "rsvp-alert-consumer",
		Topic:    AlertTopic(),
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the alert writer.
func CloseKafka() {
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close error: %v", err)
		}
	}
}
