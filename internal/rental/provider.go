// Package rental is the marketplace core: providers quote from their
// inventory, customers book quotes, and bookings are returned directly or
// through a partner shop.
package rental

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/delivery"
	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
	"bike-rental-marketplace/internal/pricing"
)

// BikeProvider is one rental shop. mu guards the inventory and partner set
// and is held across every check-then-reserve sequence on its bikes.
// Lock order is provider, then bike.
type BikeProvider struct {
	ID   string
	Name string

	location  domain.Location
	pricing   pricing.Policy
	valuation pricing.ValuationPolicy
	delivery  delivery.Service
	now       func() time.Time

	mu        sync.Mutex
	inventory map[*domain.BikeType][]*domain.Bike
	types     []*domain.BikeType
	partners  []*BikeProvider
}

func NewBikeProvider(name string, location domain.Location, policy pricing.Policy, valuation pricing.ValuationPolicy, deliverySvc delivery.Service) *BikeProvider {
	return &BikeProvider{
		ID:        uuid.NewString(),
		Name:      name,
		location:  location,
		pricing:   policy,
		valuation: valuation,
		delivery:  deliverySvc,
		now:       time.Now,
		inventory: make(map[*domain.BikeType][]*domain.Bike),
	}
}

// SetClock replaces the time source used for deposits and partner hand-offs.
func (p *BikeProvider) SetClock(now func() time.Time) {
	p.mu.Lock()
	p.now = now
	p.mu.Unlock()
}

func (p *BikeProvider) Location() domain.Location { return p.location }

func (p *BikeProvider) Pricing() pricing.Policy { return p.pricing }

func (p *BikeProvider) Valuation() pricing.ValuationPolicy { return p.valuation }

func (p *BikeProvider) today() time.Time {
	return domain.TruncateToDate(p.now())
}

// AddBike appends the bike to its type's list. Adding a bike already in
// stock is a no-op and reports false.
func (p *BikeProvider) AddBike(b *domain.Bike) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	stock, ok := p.inventory[b.Type]
	if !ok {
		p.types = append(p.types, b.Type)
	}
	for _, existing := range stock {
		if existing == b {
			return false
		}
	}
	p.inventory[b.Type] = append(stock, b)
	return true
}

// RemoveBike reports whether the bike was in stock.
func (p *BikeProvider) RemoveBike(b *domain.Bike) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	stock := p.inventory[b.Type]
	for i, existing := range stock {
		if existing == b {
			p.inventory[b.Type] = append(stock[:i], stock[i+1:]...)
			return true
		}
	}
	return false
}

// Stock returns the bikes of a type in stored order.
func (p *BikeProvider) Stock(t *domain.BikeType) []*domain.Bike {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*domain.Bike, len(p.inventory[t]))
	copy(out, p.inventory[t])
	return out
}

// BikeTypes lists the types ever stocked, in the order first added.
func (p *BikeProvider) BikeTypes() []*domain.BikeType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*domain.BikeType, len(p.types))
	copy(out, p.types)
	return out
}

// AddPartner records a directed edge p -> partner. Mutual partnership needs
// both directions added.
func (p *BikeProvider) AddPartner(partner *BikeProvider) bool {
	if partner == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.partners {
		if existing == partner {
			return false
		}
	}
	p.partners = append(p.partners, partner)
	return true
}

func (p *BikeProvider) RemovePartner(partner *BikeProvider) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.partners {
		if existing == partner {
			p.partners = append(p.partners[:i], p.partners[i+1:]...)
			return true
		}
	}
	return false
}

func (p *BikeProvider) HasPartner(partner *BikeProvider) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.partners {
		if existing == partner {
			return true
		}
	}
	return false
}

func (p *BikeProvider) Partners() []*BikeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*BikeProvider, len(p.partners))
	copy(out, p.partners)
	return out
}

// GenerateQuote selects, per requested type, the first bikes in stored order
// that are Available and free for dates. The request is all or nothing: if
// any type falls short, no quote is produced. Nothing is reserved.
//
// Non-positive quantities are ignored; a request for zero bikes in total
// gets no quote.
func (p *BikeProvider) GenerateQuote(requested map[*domain.BikeType]int, dates domain.DateRange) (*Quote, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for t, n := range requested {
		if n <= 0 {
			continue
		}
		if _, ok := p.inventory[t]; !ok {
			p.allocationFailed("bike type not stocked", "bike_type", t.Name)
			return nil, false
		}
		total += n
	}
	if total == 0 {
		return nil, false
	}

	selected := make([]*domain.Bike, 0, total)
	for _, t := range p.types {
		wanted := requested[t]
		if wanted <= 0 {
			continue
		}
		for _, b := range p.inventory[t] {
			if wanted == 0 {
				break
			}
			if b.Quotable(dates) {
				selected = append(selected, b)
				wanted--
			}
		}
		if wanted > 0 {
			p.allocationFailed("not enough free bikes", "bike_type", t.Name, "short_by", wanted)
			return nil, false
		}
	}
	if len(selected) != total {
		p.allocationFailed("selected count mismatch", "selected", len(selected), "requested", total)
		return nil, false
	}

	price := p.pricing.CalculatePrice(selected, dates)
	deposit := decimal.Zero
	asOf := p.today()
	for _, b := range selected {
		deposit = deposit.Add(p.valuation.CalculateValue(b, asOf))
	}

	metrics.QuotesGeneratedTotal.Inc()
	return newQuote(p, dates, selected, price, deposit), true
}

func (p *BikeProvider) allocationFailed(reason string, args ...any) {
	metrics.AllocationFailuresTotal.Inc()
	logger.WithProvider(p.Name).Debug("No quote", append([]any{"reason", reason}, args...)...)
}

// reserve re-checks that every bike is still free for dates and, only if all
// are, reserves them. It must not be called with the bikes' provider lock
// already held.
func (p *BikeProvider) reserve(bikes []*domain.Bike, dates domain.DateRange) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bikes {
		if !b.CheckFree(dates) {
			return false
		}
	}
	for _, b := range bikes {
		b.Reserve(dates)
	}
	return true
}

func (p *BikeProvider) release(bikes []*domain.Bike, dates domain.DateRange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range bikes {
		b.Release(dates)
	}
}

// ReturnBikes clears the booking's dates from each of its bikes, makes them
// Available and marks the booking Returned. A booking already Returned is
// left alone and false is reported.
func (p *BikeProvider) ReturnBikes(ctx context.Context, booking *BookedQuote) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !booking.markReturned() {
		return false
	}
	dates := booking.Dates()
	for _, b := range booking.bikes {
		b.Release(dates)
		b.SetStatus(domain.BikeStatusAvailable)
	}
	logger.WithProvider(p.Name).InfoContext(ctx, "Bikes returned",
		"booking_id", booking.ID(), "bikes", len(booking.bikes))
	return true
}

// ScheduleDeliveryToCustomer books one courier job per bike from the shop to
// the customer's address, picked up on the first day of the booking.
func (p *BikeProvider) ScheduleDeliveryToCustomer(ctx context.Context, booking *BookedQuote) {
	if p.delivery == nil {
		logger.WithProvider(p.Name).WarnContext(ctx, "No delivery service configured", "booking_id", booking.ID())
		return
	}
	dropoff := booking.Customer().Address
	pickupDate := booking.Dates().Start
	logger.ExternalServiceCall("delivery", "ScheduleDelivery", "booking_id", booking.ID(), "bikes", len(booking.bikes))
	for _, b := range booking.bikes {
		p.delivery.ScheduleDelivery(ctx, b, p.location, dropoff, pickupDate)
	}
	logger.ExternalServiceResult("delivery", "ScheduleDelivery", nil, "booking_id", booking.ID())
}

// ReturnOutcome says what ReturnOrder did.
type ReturnOutcome string

const (
	ReturnDirect          ReturnOutcome = "direct"
	ReturnViaPartner      ReturnOutcome = "via_partner"
	ReturnNotFound        ReturnOutcome = "not_found"
	ReturnAlreadyReturned ReturnOutcome = "already_returned"
)

// ReturnOrder accepts a customer's bikes at this shop. A booking made with a
// partner return is released by the partner and, unless this shop is the
// partner, its bikes are couriered here-to-partner today. Otherwise the
// origin releases the bikes in place.
func (p *BikeProvider) ReturnOrder(ctx context.Context, customer *Customer, bookingID string) ReturnOutcome {
	outcome := p.returnOrder(ctx, customer, bookingID)
	metrics.ReturnsTotal.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (p *BikeProvider) returnOrder(ctx context.Context, customer *Customer, bookingID string) ReturnOutcome {
	log := logger.WithProvider(p.Name)
	booking, ok := customer.Booking(bookingID)
	if !ok {
		log.DebugContext(ctx, "Return for unknown booking", "booking_id", bookingID)
		return ReturnNotFound
	}

	partner := booking.PartnerToReturnTo()
	if partner == nil {
		if !booking.Provider().ReturnBikes(ctx, booking) {
			log.DebugContext(ctx, "Booking already returned", "booking_id", bookingID)
			return ReturnAlreadyReturned
		}
		return ReturnDirect
	}

	// release first so a replayed return schedules nothing
	if !partner.ReturnBikes(ctx, booking) {
		log.DebugContext(ctx, "Booking already returned", "booking_id", bookingID)
		return ReturnAlreadyReturned
	}
	if partner == p {
		log.InfoContext(ctx, "Bikes returned at partner", "booking_id", bookingID, "origin", booking.Provider().Name)
		return ReturnViaPartner
	}

	if p.delivery == nil {
		log.WarnContext(ctx, "No delivery service configured for partner hand-off", "booking_id", bookingID)
		return ReturnViaPartner
	}
	p.mu.Lock()
	today := p.today()
	p.mu.Unlock()
	for _, b := range booking.bikes {
		p.delivery.ScheduleDelivery(ctx, returnLeg{bike: b}, p.location, partner.Location(), today)
	}
	log.InfoContext(ctx, "Partner return scheduled", "booking_id", bookingID, "partner", partner.Name)
	return ReturnViaPartner
}

// returnLeg carries a returned bike to the partner shop. The bike is off the
// shelf while in transit and rentable again once dropped off.
type returnLeg struct {
	bike *domain.Bike
}

func (l returnLeg) OnPickup()  { l.bike.SetStatus(domain.BikeStatusOutForDelivery) }
func (l returnLeg) OnDropoff() { l.bike.SetStatus(domain.BikeStatusAvailable) }
