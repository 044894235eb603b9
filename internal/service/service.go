package service

import (
	"context"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/rental"
)

// MarketplaceService is what the API layer drives.
type MarketplaceService interface {
	RegisterCustomer(ctx context.Context, firstName, surname, email, postcode, address string) (*rental.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*rental.Customer, error)
	ListBikeTypes(ctx context.Context) []*domain.BikeType
	ListProviders(ctx context.Context) []*rental.BikeProvider
	SearchQuotes(ctx context.Context, postcode string, requested map[string]int, dates domain.DateRange) ([]*rental.Quote, error)
	Book(ctx context.Context, customerID, quoteID, partnerID string, collect bool) (*rental.BookedQuote, error)
	ListBookings(ctx context.Context, customerID string) ([]*rental.BookedQuote, error)
	ReturnOrder(ctx context.Context, providerID, customerID, bookingID string) (rental.ReturnOutcome, error)
}

// QuoteKeeper expires quotes nobody booked.
type QuoteKeeper interface {
	PurgeExpiredQuotes(ctx context.Context) int
}
