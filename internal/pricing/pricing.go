// Package pricing holds the per-provider policies that turn a set of bikes
// and a date range into a rental price and a refundable deposit.
package pricing

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
)

// Policy prices a set of bikes over a date range.
type Policy interface {
	SetDailyRentalPrice(bikeType *domain.BikeType, price decimal.Decimal) error
	CalculatePrice(bikes []*domain.Bike, dates domain.DateRange) decimal.Decimal
}

// ValuationPolicy computes the refundable deposit for one bike.
type ValuationPolicy interface {
	CalculateValue(bike *domain.Bike, asOf time.Time) decimal.Decimal
}

// FlatPricing charges the sum of per-type daily rates times the number of days.
type FlatPricing struct {
	mu    sync.RWMutex
	rates map[*domain.BikeType]decimal.Decimal
}

func NewFlatPricing() *FlatPricing {
	return &FlatPricing{rates: make(map[*domain.BikeType]decimal.Decimal)}
}

// SetDailyRentalPrice adds or overwrites the daily rate for a type.
func (p *FlatPricing) SetDailyRentalPrice(bikeType *domain.BikeType, price decimal.Decimal) error {
	p.mu.Lock()
	p.rates[bikeType] = price
	p.mu.Unlock()
	return nil
}

func (p *FlatPricing) Rate(bikeType *domain.BikeType) (decimal.Decimal, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rates[bikeType]
	return r, ok
}

// CalculatePrice prices unknown bike types at zero and records a violation
// instead of failing the quote.
func (p *FlatPricing) CalculatePrice(bikes []*domain.Bike, dates domain.DateRange) decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()

	daily := decimal.Zero
	for _, b := range bikes {
		rate, ok := p.rates[b.Type]
		if !ok {
			unknownType("flat", b.Type)
			continue
		}
		daily = daily.Add(rate)
	}
	return daily.Mul(decimal.NewFromInt(int64(dates.DurationDays())))
}

func unknownType(policy string, t *domain.BikeType) {
	logger.PolicyViolation(policy, "bike type is not in the rates", "bike_type", t.Name)
	metrics.PolicyViolationsTotal.WithLabelValues(policy, "unknown_bike_type").Inc()
}

// FlatValuation uses the bike type's replacement value as the deposit.
type FlatValuation struct{}

func NewFlatValuation() FlatValuation {
	return FlatValuation{}
}

// CalculateValue ignores asOf; depreciation is not modelled.
func (FlatValuation) CalculateValue(bike *domain.Bike, _ time.Time) decimal.Decimal {
	return bike.Type.ReplacementValue
}
