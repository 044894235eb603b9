package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/events"
	"bike-rental-marketplace/internal/notify"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Save(ctx context.Context, rec *domain.BookingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRecord), args.Error(1)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.BookingRecord, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.BookingRecord), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
