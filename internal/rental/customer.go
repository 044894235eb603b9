package rental

import (
	"sync"

	"github.com/google/uuid"

	"bike-rental-marketplace/internal/domain"
)

type Customer struct {
	ID        string
	FirstName string
	Surname   string
	Email     string
	Address   domain.Location

	mu       sync.RWMutex
	bookings []*BookedQuote
}

func NewCustomer(firstName, surname, email string, address domain.Location) *Customer {
	return &Customer{
		ID:        uuid.NewString(),
		FirstName: firstName,
		Surname:   surname,
		Email:     email,
		Address:   address,
	}
}

func (c *Customer) FullName() string {
	if c.Surname == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.Surname
}

// Bookings returns the booking history, oldest first.
func (c *Customer) Bookings() []*BookedQuote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*BookedQuote, len(c.bookings))
	copy(out, c.bookings)
	return out
}

func (c *Customer) Booking(id string) (*BookedQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookings {
		if b.id == id {
			return b, true
		}
	}
	return nil, false
}

func (c *Customer) addBooking(b *BookedQuote) {
	c.mu.Lock()
	c.bookings = append(c.bookings, b)
	c.mu.Unlock()
}

// SearchQuotes asks every provider near location for a quote.
func (c *Customer) SearchQuotes(location domain.Location, requested map[*domain.BikeType]int, dates domain.DateRange, providers []*BikeProvider) []*Quote {
	return Search(location, requested, dates, providers)
}
