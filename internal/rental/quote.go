package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/domain"
)

// Quote is a provider's offer for a request. It reserves nothing and never
// changes after construction.
type Quote struct {
	id        string
	provider  *BikeProvider
	dates     domain.DateRange
	bikes     []*domain.Bike
	price     decimal.Decimal
	deposit   decimal.Decimal
	createdAt time.Time
}

func newQuote(p *BikeProvider, dates domain.DateRange, bikes []*domain.Bike, price, deposit decimal.Decimal) *Quote {
	return &Quote{
		id:        uuid.NewString(),
		provider:  p,
		dates:     dates,
		bikes:     bikes,
		price:     price,
		deposit:   deposit,
		createdAt: time.Now(),
	}
}

func (q *Quote) ID() string               { return q.id }
func (q *Quote) Provider() *BikeProvider  { return q.provider }
func (q *Quote) Dates() domain.DateRange  { return q.dates }
func (q *Quote) Price() decimal.Decimal   { return q.price }
func (q *Quote) Deposit() decimal.Decimal { return q.deposit }
func (q *Quote) CreatedAt() time.Time     { return q.createdAt }

// Bikes returns the selected bikes in selection order.
func (q *Quote) Bikes() []*domain.Bike {
	out := make([]*domain.Bike, len(q.bikes))
	copy(out, q.bikes)
	return out
}

// Counts returns how many bikes of each type the quote holds.
func (q *Quote) Counts() map[*domain.BikeType]int {
	counts := make(map[*domain.BikeType]int)
	for _, b := range q.bikes {
		counts[b.Type]++
	}
	return counts
}
