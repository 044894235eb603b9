package pricing

import (
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
)

// Unbounded marks an open-ended discount tier, e.g. "14 days or more".
const Unbounded = math.MaxInt

var hundred = decimal.NewFromInt(100)

// DurationDiscount applies Percent off when the rental length in days falls
// within [MinDays, MaxDays].
type DurationDiscount struct {
	MinDays int
	MaxDays int
	Percent decimal.Decimal
}

func NewDurationDiscount(minDays, maxDays int, percent decimal.Decimal) DurationDiscount {
	return DurationDiscount{MinDays: minDays, MaxDays: maxDays, Percent: percent}
}

func (d DurationDiscount) Contains(days int) bool {
	return d.MinDays <= days && days <= d.MaxDays
}

// DiscountedPricing keeps a price book of daily rates and a list of duration
// discount tiers sorted by ascending percentage.
type DiscountedPricing struct {
	mu        sync.RWMutex
	rates     map[*domain.BikeType]decimal.Decimal
	discounts []DurationDiscount
}

func NewDiscountedPricing() *DiscountedPricing {
	return &DiscountedPricing{rates: make(map[*domain.BikeType]decimal.Decimal)}
}

// AddBikeType registers a type in the price book. Re-adding a type is rejected.
func (p *DiscountedPricing) AddBikeType(bikeType *domain.BikeType, price decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rates[bikeType]; ok {
		return configError("add bike type", bikeType, domain.ErrDuplicateBikeType)
	}
	p.rates[bikeType] = price
	return nil
}

// SetDailyRentalPrice updates a registered type. Unregistered types are rejected.
func (p *DiscountedPricing) SetDailyRentalPrice(bikeType *domain.BikeType, price decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rates[bikeType]; !ok {
		return configError("set daily rental price", bikeType, domain.ErrUnknownBikeType)
	}
	p.rates[bikeType] = price
	return nil
}

func configError(op string, t *domain.BikeType, err error) error {
	logger.PolicyViolation("discounted", err.Error(), "op", op, "bike_type", t.Name)
	metrics.PolicyViolationsTotal.WithLabelValues("discounted", "configuration").Inc()
	return domain.ConfigurationError{Op: op, BikeType: t.Name, Err: err}
}

func (p *DiscountedPricing) Rate(bikeType *domain.BikeType) (decimal.Decimal, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rates[bikeType]
	return r, ok
}

// AddDiscount inserts the tier after every tier with an equal or smaller
// percentage.
func (p *DiscountedPricing) AddDiscount(d DurationDiscount) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := sort.Search(len(p.discounts), func(i int) bool {
		return p.discounts[i].Percent.GreaterThan(d.Percent)
	})
	p.discounts = append(p.discounts, DurationDiscount{})
	copy(p.discounts[pos+1:], p.discounts[pos:])
	p.discounts[pos] = d
}

func (p *DiscountedPricing) Discounts() []DurationDiscount {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]DurationDiscount, len(p.discounts))
	copy(out, p.discounts)
	return out
}

func (p *DiscountedPricing) CalculatePrice(bikes []*domain.Bike, dates domain.DateRange) decimal.Decimal {
	p.mu.RLock()
	defer p.mu.RUnlock()

	days := dates.DurationDays()
	total := decimal.Zero
	for _, b := range bikes {
		rate, ok := p.rates[b.Type]
		if !ok {
			unknownType("discounted", b.Type)
			continue
		}
		total = total.Add(rate.Mul(decimal.NewFromInt(int64(days))))
	}

	factor := decimal.NewFromInt(1).Sub(p.findDiscount(days).Div(hundred))
	return total.Mul(factor)
}

// findDiscount walks every tier and keeps the last one containing days.
// Overlapping tiers resolve by position in the tier list, which AddDiscount
// keeps in ascending percentage order.
func (p *DiscountedPricing) findDiscount(days int) decimal.Decimal {
	best := decimal.Zero
	for _, d := range p.discounts {
		if d.Contains(days) {
			best = d.Percent
		}
	}
	return best
}
