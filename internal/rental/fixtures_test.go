package rental

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"bike-rental-marketplace/internal/delivery"
	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/pricing"
)

var testToday = domain.Date(2024, 6, 1)

func fixedClock() time.Time { return testToday }

// MockPaymentAuthorizer
type MockPaymentAuthorizer struct {
	mock.Mock
}

func (m *MockPaymentAuthorizer) Authorize(ctx context.Context, booking *BookedQuote) (bool, error) {
	args := m.Called(ctx, booking)
	return args.Bool(0), args.Error(1)
}

type approveAll struct{}

func (approveAll) Authorize(context.Context, *BookedQuote) (bool, error) { return true, nil }

type fixture struct {
	bmx        *domain.BikeType
	yellowBike *domain.BikeType
	courier    *delivery.Scheduler
	customer   *Customer
}

func newFixture() *fixture {
	return &fixture{
		bmx:        domain.NewBikeType("BMX", decimal.NewFromInt(235)),
		yellowBike: domain.NewBikeType("Yellow Bike", decimal.NewFromInt(75)),
		courier:    delivery.NewScheduler(),
		customer: NewCustomer("Juan", "Del Potro", "juan@example.com",
			domain.MustLocation("KY12 0RJ", "Carneggie's Left Limb Crescent")),
	}
}

func (f *fixture) flatProvider(name, postcode string, rates map[*domain.BikeType]int64) *BikeProvider {
	policy := pricing.NewFlatPricing()
	for t, r := range rates {
		_ = policy.SetDailyRentalPrice(t, decimal.NewFromInt(r))
	}
	p := NewBikeProvider(name, domain.MustLocation(postcode, name+" St."), policy, pricing.NewFlatValuation(), f.courier)
	p.SetClock(fixedClock)
	return p
}

func stock(p *BikeProvider, t *domain.BikeType, n int) []*domain.Bike {
	bikes := make([]*domain.Bike, 0, n)
	for i := 0; i < n; i++ {
		b := domain.NewBike(t)
		p.AddBike(b)
		bikes = append(bikes, b)
	}
	return bikes
}

func week(offsetDays int) domain.DateRange {
	start := testToday.AddDate(0, 0, offsetDays)
	return domain.NewDateRange(start, start.AddDate(0, 0, 7))
}

func newDesk() *BookingDesk {
	return NewBookingDesk(approveAll{}, NewSequenceIDGenerator(), DeskOptions{})
}
