// Package events publishes booking lifecycle changes to the event stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
)

type EventType string

const (
	BookingCreated  EventType = "booking.created"
	BookingReturned EventType = "booking.returned"
)

type BookingEvent struct {
	Type       EventType            `json:"type"`
	OccurredAt time.Time            `json:"occurred_at"`
	Booking    domain.BookingRecord `json:"booking"`
	// ReturnedAt is the provider that accepted a return.
	ReturnedAt string `json:"returned_at,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per event, keyed by booking ID so a
// booking's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Booking.BookingID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	logger.ExternalServiceCall("kafka", "WriteMessages", "topic", p.topic, "event", event.Type, "booking_id", event.Booking.BookingID)
	err = p.writer.WriteMessages(ctx, msg)
	logger.ExternalServiceResult("kafka", "WriteMessages", err, "topic", p.topic, "booking_id", event.Booking.BookingID)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher writes events to the application log when no broker is
// configured.
type LogPublisher struct{}

func NewLogPublisher() LogPublisher {
	return LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, event BookingEvent) error {
	logger.InfoContext(ctx, "Booking event",
		"event", event.Type,
		"booking_id", event.Booking.BookingID,
		"status", event.Booking.Status,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
