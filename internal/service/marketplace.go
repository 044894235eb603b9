package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/events"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
	"bike-rental-marketplace/internal/notify"
	"bike-rental-marketplace/internal/rental"
	"bike-rental-marketplace/internal/repository"
)

const defaultQuoteTTL = 30 * time.Minute

type cachedQuote struct {
	quote     *rental.Quote
	expiresAt time.Time
}

// Marketplace is the registry of bike types, providers and customers. It
// holds quotes between search and booking and reports every lifecycle
// change to the journal, the event stream and the customer's inbox. Those
// reports are best effort: their failures are logged and never undo a
// booking or a return.
type Marketplace struct {
	desk      *rental.BookingDesk
	journal   repository.BookingRepository
	publisher events.Publisher
	notifier  notify.Notifier
	quoteTTL  time.Duration
	now       func() time.Time

	mu            sync.RWMutex
	bikeTypes     map[string]*domain.BikeType
	typeOrder     []*domain.BikeType
	providers     map[string]*rental.BikeProvider
	providerOrder []*rental.BikeProvider
	customers     map[string]*rental.Customer
	quotes        map[string]cachedQuote
}

// NewMarketplace wires the registry. A nil journal disables journaling; nil
// publisher and notifier fall back to log-only implementations.
func NewMarketplace(desk *rental.BookingDesk, journal repository.BookingRepository, publisher events.Publisher, notifier notify.Notifier, quoteTTL time.Duration) *Marketplace {
	if publisher == nil {
		publisher = events.NewLogPublisher()
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	if quoteTTL <= 0 {
		quoteTTL = defaultQuoteTTL
	}
	return &Marketplace{
		desk:      desk,
		journal:   journal,
		publisher: publisher,
		notifier:  notifier,
		quoteTTL:  quoteTTL,
		now:       time.Now,
		bikeTypes: make(map[string]*domain.BikeType),
		providers: make(map[string]*rental.BikeProvider),
		customers: make(map[string]*rental.Customer),
		quotes:    make(map[string]cachedQuote),
	}
}

func (m *Marketplace) AddBikeType(bt *domain.BikeType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bikeTypes[bt.ID]; ok {
		return domain.ConfigurationError{Op: "add bike type", BikeType: bt.Name, Err: domain.ErrDuplicateBikeType}
	}
	m.bikeTypes[bt.ID] = bt
	m.typeOrder = append(m.typeOrder, bt)
	return nil
}

func (m *Marketplace) AddProvider(p *rental.BikeProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[p.ID]; ok {
		return domain.ValidationError{Field: "provider", Msg: "provider " + p.ID + " already registered"}
	}
	m.providers[p.ID] = p
	m.providerOrder = append(m.providerOrder, p)
	return nil
}

func (m *Marketplace) ListBikeTypes(_ context.Context) []*domain.BikeType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.BikeType, len(m.typeOrder))
	copy(out, m.typeOrder)
	return out
}

func (m *Marketplace) ListProviders(_ context.Context) []*rental.BikeProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*rental.BikeProvider, len(m.providerOrder))
	copy(out, m.providerOrder)
	return out
}

func (m *Marketplace) BikeType(id string) (*domain.BikeType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bt, ok := m.bikeTypes[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "bike type", ID: id}
	}
	return bt, nil
}

func (m *Marketplace) Provider(id string) (*rental.BikeProvider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "provider", ID: id}
	}
	return p, nil
}

func (m *Marketplace) Customer(id string) (*rental.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "customer", ID: id}
	}
	return c, nil
}

func (m *Marketplace) GetCustomer(_ context.Context, customerID string) (*rental.Customer, error) {
	return m.Customer(customerID)
}

func (m *Marketplace) RegisterCustomer(ctx context.Context, firstName, surname, email, postcode, address string) (*rental.Customer, error) {
	if firstName == "" {
		return nil, domain.ValidationError{Field: "first_name", Msg: "first name is required"}
	}
	loc, err := domain.NewLocation(postcode, address)
	if err != nil {
		return nil, err
	}
	c := rental.NewCustomer(firstName, surname, email, loc)

	m.mu.Lock()
	m.customers[c.ID] = c
	m.mu.Unlock()

	logger.InfoContext(ctx, "Customer registered", "customer_id", c.ID)
	return c, nil
}

// SearchQuotes resolves bike type IDs, asks every provider near postcode
// for a quote and keeps the quotes for booking until they expire.
func (m *Marketplace) SearchQuotes(ctx context.Context, postcode string, requested map[string]int, dates domain.DateRange) ([]*rental.Quote, error) {
	logger.EnterMethod("Marketplace.SearchQuotes", "postcode", postcode, "dates", dates.String())

	loc, err := domain.NewLocation(postcode, "")
	if err != nil {
		logger.ExitMethodWithError("Marketplace.SearchQuotes", err)
		return nil, err
	}
	if dates.End.Before(dates.Start) {
		err := domain.ValidationError{Field: "dates", Msg: "end date must be >= start date", Err: domain.ErrInvalidDateRange}
		logger.ExitMethodWithError("Marketplace.SearchQuotes", err)
		return nil, err
	}

	wanted := make(map[*domain.BikeType]int, len(requested))
	for id, n := range requested {
		bt, err := m.BikeType(id)
		if err != nil {
			logger.ExitMethodWithError("Marketplace.SearchQuotes", err)
			return nil, err
		}
		wanted[bt] = n
	}

	quotes := rental.Search(loc, wanted, dates, m.ListProviders(ctx))

	expiresAt := m.now().Add(m.quoteTTL)
	m.mu.Lock()
	for _, q := range quotes {
		m.quotes[q.ID()] = cachedQuote{quote: q, expiresAt: expiresAt}
	}
	metrics.OpenQuotes.Set(float64(len(m.quotes)))
	m.mu.Unlock()

	logger.ExitMethod("Marketplace.SearchQuotes", "quotes", len(quotes))
	return quotes, nil
}

func (m *Marketplace) quote(id string) (*rental.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cached, ok := m.quotes[id]
	if !ok || m.now().After(cached.expiresAt) {
		return nil, domain.NotFoundError{Resource: "quote", ID: id}
	}
	return cached.quote, nil
}

func (m *Marketplace) dropQuote(id string) {
	m.mu.Lock()
	delete(m.quotes, id)
	metrics.OpenQuotes.Set(float64(len(m.quotes)))
	m.mu.Unlock()
}

// Book turns a held quote into a booking. partnerID may be empty.
func (m *Marketplace) Book(ctx context.Context, customerID, quoteID, partnerID string, collect bool) (*rental.BookedQuote, error) {
	logger.EnterMethod("Marketplace.Book", "customer_id", customerID, "quote_id", quoteID)

	customer, err := m.Customer(customerID)
	if err != nil {
		logger.ExitMethodWithError("Marketplace.Book", err)
		return nil, err
	}
	q, err := m.quote(quoteID)
	if err != nil {
		logger.ExitMethodWithError("Marketplace.Book", err)
		return nil, err
	}
	var partner *rental.BikeProvider
	if partnerID != "" {
		if partner, err = m.Provider(partnerID); err != nil {
			logger.ExitMethodWithError("Marketplace.Book", err)
			return nil, err
		}
	}

	booking, err := m.desk.MakeBooking(ctx, customer, q, partner, collect)
	if err != nil {
		if errors.Is(err, rental.ErrBikesUnavailable) {
			m.dropQuote(quoteID)
		}
		logger.ExitMethodWithError("Marketplace.Book", err)
		return nil, err
	}
	m.dropQuote(quoteID)

	rec := booking.Record()
	m.journalSave(ctx, &rec)
	m.publish(ctx, events.BookingEvent{Type: events.BookingCreated, OccurredAt: m.now(), Booking: rec})
	m.confirm(ctx, customer, booking, rec)

	logger.ExitMethod("Marketplace.Book", "booking_id", booking.ID())
	return booking, nil
}

func (m *Marketplace) ListBookings(_ context.Context, customerID string) ([]*rental.BookedQuote, error) {
	customer, err := m.Customer(customerID)
	if err != nil {
		return nil, err
	}
	return customer.Bookings(), nil
}

// ReturnOrder accepts a return at providerID. Unknown bookings are reported
// through the outcome, not as an error.
func (m *Marketplace) ReturnOrder(ctx context.Context, providerID, customerID, bookingID string) (rental.ReturnOutcome, error) {
	provider, err := m.Provider(providerID)
	if err != nil {
		return "", err
	}
	customer, err := m.Customer(customerID)
	if err != nil {
		return "", err
	}

	outcome := provider.ReturnOrder(ctx, customer, bookingID)
	if outcome != rental.ReturnDirect && outcome != rental.ReturnViaPartner {
		return outcome, nil
	}

	booking, _ := customer.Booking(bookingID)
	rec := booking.Record()
	m.journalStatus(ctx, bookingID, domain.BookingStatusReturned)
	m.publish(ctx, events.BookingEvent{Type: events.BookingReturned, OccurredAt: m.now(), Booking: rec, ReturnedAt: provider.ID})
	return outcome, nil
}

// PurgeExpiredQuotes drops held quotes past their expiry and returns how
// many were dropped.
func (m *Marketplace) PurgeExpiredQuotes(ctx context.Context) int {
	now := m.now()
	m.mu.Lock()
	purged := 0
	for id, cached := range m.quotes {
		if now.After(cached.expiresAt) {
			delete(m.quotes, id)
			purged++
		}
	}
	metrics.OpenQuotes.Set(float64(len(m.quotes)))
	m.mu.Unlock()

	logger.InfoContext(ctx, "Expired quotes purged", "count", purged)
	return purged
}

func (m *Marketplace) journalSave(ctx context.Context, rec *domain.BookingRecord) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Save(ctx, rec); err != nil {
		m.collaboratorFailed(ctx, "journal", err, rec.BookingID)
	}
}

func (m *Marketplace) journalStatus(ctx context.Context, bookingID string, status domain.BookingStatus) {
	if m.journal == nil {
		return
	}
	if err := m.journal.UpdateStatus(ctx, bookingID, status); err != nil {
		m.collaboratorFailed(ctx, "journal", err, bookingID)
	}
}

func (m *Marketplace) publish(ctx context.Context, event events.BookingEvent) {
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.collaboratorFailed(ctx, "events", err, event.Booking.BookingID)
	}
}

func (m *Marketplace) confirm(ctx context.Context, customer *rental.Customer, booking *rental.BookedQuote, rec domain.BookingRecord) {
	err := m.notifier.SendBookingConfirmation(ctx, notify.BookingConfirmation{
		CustomerName:  customer.FullName(),
		CustomerEmail: customer.Email,
		ProviderName:  booking.Provider().Name,
		Booking:       rec,
	})
	if err != nil {
		m.collaboratorFailed(ctx, "email", err, rec.BookingID)
	}
}

func (m *Marketplace) collaboratorFailed(ctx context.Context, collaborator string, err error, bookingID string) {
	metrics.CollaboratorErrorsTotal.WithLabelValues(collaborator).Inc()
	logger.ErrorContext(ctx, "Collaborator call failed", "collaborator", collaborator, "booking_id", bookingID, "error", err)
}
