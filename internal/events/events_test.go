package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bike-rental-marketplace/internal/domain"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	event := BookingEvent{
		Type:       BookingCreated,
		OccurredAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Booking: domain.BookingRecord{
			BookingID: "7",
			Status:    domain.BookingStatusPendingCollection,
			BikeIDs:   []string{"bike-1"},
		},
	}

	t.Run("Success", func(t *testing.T) {
		w := new(MockWriter)
		p := &KafkaPublisher{writer: w, topic: "booking-events"}

		var sent []kafka.Message
		w.On("WriteMessages", ctx, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
			Return(nil)

		require.NoError(t, p.Publish(ctx, event))
		require.Len(t, sent, 1)
		assert.Equal(t, []byte("7"), sent[0].Key)
		assert.Equal(t, "event-type", sent[0].Headers[0].Key)
		assert.Equal(t, []byte("booking.created"), sent[0].Headers[0].Value)

		var decoded BookingEvent
		require.NoError(t, json.Unmarshal(sent[0].Value, &decoded))
		assert.Equal(t, BookingCreated, decoded.Type)
		assert.Equal(t, "7", decoded.Booking.BookingID)
		w.AssertExpectations(t)
	})

	t.Run("Broker error", func(t *testing.T) {
		w := new(MockWriter)
		p := &KafkaPublisher{writer: w, topic: "booking-events"}
		brokerDown := errors.New("broker down")
		w.On("WriteMessages", ctx, mock.Anything).Return(brokerDown)

		err := p.Publish(ctx, event)
		assert.ErrorIs(t, err, brokerDown)
	})

	t.Run("Close", func(t *testing.T) {
		w := new(MockWriter)
		w.On("Close").Return(nil)
		p := &KafkaPublisher{writer: w, topic: "booking-events"}
		assert.NoError(t, p.Close())
		w.AssertExpectations(t)
	})
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher()
	assert.NoError(t, p.Publish(context.Background(), BookingEvent{Type: BookingReturned}))
	assert.NoError(t, p.Close())
}
