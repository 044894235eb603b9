package rental

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
)

var (
	ErrNilQuote         = errors.New("no quote to book")
	ErrPaymentDeclined  = errors.New("payment declined")
	ErrBikesUnavailable = errors.New("quoted bikes are no longer available")
)

// BookedQuote is an accepted quote. Its bikes are shared with the provider's
// inventory; the booking only holds references.
type BookedQuote struct {
	id        string
	provider  *BikeProvider
	customer  *Customer
	dates     domain.DateRange
	bikes     []*domain.Bike
	price     decimal.Decimal
	deposit   decimal.Decimal
	collected bool
	createdOn time.Time

	mu        sync.RWMutex
	status    domain.BookingStatus
	partner   *BikeProvider
	updatedOn time.Time
}

func newBookedQuote(id string, q *Quote, customer *Customer, collected bool) *BookedQuote {
	now := time.Now()
	return &BookedQuote{
		id:        id,
		provider:  q.provider,
		customer:  customer,
		dates:     q.dates,
		bikes:     q.bikes,
		price:     q.price,
		deposit:   q.deposit,
		collected: collected,
		createdOn: now,
		status:    domain.BookingStatusPendingPayment,
		updatedOn: now,
	}
}

func (b *BookedQuote) ID() string               { return b.id }
func (b *BookedQuote) Provider() *BikeProvider  { return b.provider }
func (b *BookedQuote) Customer() *Customer      { return b.customer }
func (b *BookedQuote) Dates() domain.DateRange  { return b.dates }
func (b *BookedQuote) Price() decimal.Decimal   { return b.price }
func (b *BookedQuote) Deposit() decimal.Decimal { return b.deposit }
func (b *BookedQuote) Collected() bool          { return b.collected }

func (b *BookedQuote) Bikes() []*domain.Bike {
	out := make([]*domain.Bike, len(b.bikes))
	copy(out, b.bikes)
	return out
}

func (b *BookedQuote) Status() domain.BookingStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *BookedQuote) setStatus(s domain.BookingStatus) {
	b.mu.Lock()
	b.status = s
	b.updatedOn = time.Now()
	b.mu.Unlock()
}

// markReturned moves the booking to Returned and reports whether it was not
// Returned already.
func (b *BookedQuote) markReturned() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == domain.BookingStatusReturned {
		return false
	}
	b.status = domain.BookingStatusReturned
	b.updatedOn = time.Now()
	return true
}

// ReturnedToPartner reports whether a partner return was accepted at booking.
func (b *BookedQuote) ReturnedToPartner() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.partner != nil
}

func (b *BookedQuote) PartnerToReturnTo() *BikeProvider {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.partner
}

// setPartnerToReturnTo records partner only if the booking's provider lists
// it as a partner.
func (b *BookedQuote) setPartnerToReturnTo(partner *BikeProvider) bool {
	if !b.provider.HasPartner(partner) {
		return false
	}
	b.mu.Lock()
	b.partner = partner
	b.mu.Unlock()
	return true
}

// Record snapshots the booking for the journal and event stream.
func (b *BookedQuote) Record() domain.BookingRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bikeIDs := make([]string, 0, len(b.bikes))
	for _, bike := range b.bikes {
		bikeIDs = append(bikeIDs, bike.ID)
	}
	rec := domain.BookingRecord{
		BookingID:  b.id,
		CustomerID: b.customer.ID,
		ProviderID: b.provider.ID,
		StartDate:  b.dates.Start.Format(domain.DateLayout),
		EndDate:    b.dates.End.Format(domain.DateLayout),
		BikeIDs:    bikeIDs,
		Price:      b.price.String(),
		Deposit:    b.deposit.String(),
		Status:     b.status,
		Collected:  b.collected,
		CreatedOn:  b.createdOn,
		UpdatedOn:  b.updatedOn,
	}
	if b.partner != nil {
		id := b.partner.ID
		rec.PartnerID = &id
	}
	return rec
}

// IDGenerator hands out booking IDs. Implementations must never repeat an ID.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceIDGenerator issues "0", "1", "2", ... from its own counter.
type SequenceIDGenerator struct {
	next atomic.Uint64
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (g *SequenceIDGenerator) NewID() string {
	return strconv.FormatUint(g.next.Add(1)-1, 10)
}

// PaymentAuthorizer is the external payment check.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, booking *BookedQuote) (bool, error)
}

type DeskOptions struct {
	// ReleaseOnPaymentFailure drops the reservation when payment is declined.
	// By default the bikes stay reserved for the booking's dates.
	ReleaseOnPaymentFailure bool
}

// BookingDesk turns quotes into bookings.
type BookingDesk struct {
	payments PaymentAuthorizer
	ids      IDGenerator
	opts     DeskOptions
}

func NewBookingDesk(payments PaymentAuthorizer, ids IDGenerator, opts DeskOptions) *BookingDesk {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &BookingDesk{payments: payments, ids: ids, opts: opts}
}

// MakeBooking reserves the quoted bikes, takes payment and, on success,
// schedules delivery or marks the booking for collection, records an
// accepted partner and appends the booking to the customer's history.
//
// A stale quote whose bikes have been reserved since quoting fails with
// ErrBikesUnavailable and reserves nothing. A declined or failed payment
// fails with ErrPaymentDeclined and the booking is not kept.
func (d *BookingDesk) MakeBooking(ctx context.Context, customer *Customer, quote *Quote, partner *BikeProvider, isCollected bool) (*BookedQuote, error) {
	if quote == nil {
		return nil, ErrNilQuote
	}
	provider := quote.Provider()

	if !provider.reserve(quote.bikes, quote.dates) {
		metrics.BookingsTotal.WithLabelValues("unavailable").Inc()
		logger.WithProvider(provider.Name).WarnContext(ctx, "Quote is stale", "quote_id", quote.ID())
		return nil, ErrBikesUnavailable
	}

	booking := newBookedQuote(d.ids.NewID(), quote, customer, isCollected)
	log := logger.WithBooking(booking.ID())

	logger.ExternalServiceCall("payment", "Authorize", "booking_id", booking.ID(), "amount", booking.Price().String())
	approved, err := d.payments.Authorize(ctx, booking)
	logger.ExternalServiceResult("payment", "Authorize", err, "booking_id", booking.ID(), "approved", approved)
	if err != nil || !approved {
		if d.opts.ReleaseOnPaymentFailure {
			provider.release(quote.bikes, quote.dates)
		}
		metrics.BookingsTotal.WithLabelValues("declined").Inc()
		log.WarnContext(ctx, "Payment declined", "released", d.opts.ReleaseOnPaymentFailure)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
		}
		return nil, ErrPaymentDeclined
	}

	if isCollected {
		booking.setStatus(domain.BookingStatusPendingCollection)
	} else {
		booking.setStatus(domain.BookingStatusPendingDelivery)
		provider.ScheduleDeliveryToCustomer(ctx, booking)
	}

	if partner != nil && !booking.setPartnerToReturnTo(partner) {
		log.DebugContext(ctx, "Partner not accepted", "partner", partner.Name)
	}

	customer.addBooking(booking)
	metrics.BookingsTotal.WithLabelValues("booked").Inc()
	log.InfoContext(ctx, "Booking made", "provider", provider.Name, "status", booking.Status(), "dates", booking.Dates().String())
	return booking, nil
}
