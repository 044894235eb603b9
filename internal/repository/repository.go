package repository

import (
	"context"

	"bike-rental-marketplace/internal/domain"
)

// BookingRepository is the append-and-update journal of booking lifecycle
// records. The in-memory marketplace stays the source of truth; the journal
// is for audit and reporting.
type BookingRepository interface {
	Save(ctx context.Context, rec *domain.BookingRecord) error
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error
	GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.BookingRecord, error)
}
