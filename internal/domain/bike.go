package domain

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BikeStatus string

const (
	BikeStatusAvailable      BikeStatus = "AVAILABLE"
	BikeStatusOutForDelivery BikeStatus = "OUT_FOR_DELIVERY"
	BikeStatusDelivered      BikeStatus = "DELIVERED"
)

// BikeType is compared by pointer identity: two types sharing a name are
// still distinct entries in price books and inventories.
type BikeType struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ReplacementValue decimal.Decimal `json:"replacement_value"`
}

func NewBikeType(name string, replacementValue decimal.Decimal) *BikeType {
	return &BikeType{
		ID:               uuid.NewString(),
		Name:             name,
		ReplacementValue: replacementValue,
	}
}

// Bike is one physical unit. Its status and reservations are guarded by its
// own mutex; the owning provider serializes check-then-reserve sequences.
type Bike struct {
	ID   string
	Type *BikeType

	mu       sync.Mutex
	status   BikeStatus
	reserved []DateRange
}

func NewBike(t *BikeType) *Bike {
	return &Bike{
		ID:     uuid.NewString(),
		Type:   t,
		status: BikeStatusAvailable,
	}
}

func (b *Bike) Status() BikeStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *Bike) SetStatus(s BikeStatus) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

// CheckFree reports whether no reservation overlaps dates.
func (b *Bike) CheckFree(dates DateRange) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkFreeLocked(dates)
}

func (b *Bike) checkFreeLocked(dates DateRange) bool {
	for _, r := range b.reserved {
		if r.Overlaps(dates) {
			return false
		}
	}
	return true
}

// Quotable reports whether the bike is Available and free for dates.
func (b *Bike) Quotable(dates DateRange) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status == BikeStatusAvailable && b.checkFreeLocked(dates)
}

func (b *Bike) Reserve(dates DateRange) {
	b.mu.Lock()
	b.reserved = append(b.reserved, dates)
	b.mu.Unlock()
}

// Release removes the first reservation equal to dates. It reports whether
// one was found.
func (b *Bike) Release(dates DateRange) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.reserved {
		if r.Equal(dates) {
			b.reserved = append(b.reserved[:i], b.reserved[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bike) Reservations() []DateRange {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]DateRange, len(b.reserved))
	copy(out, b.reserved)
	return out
}

// OnPickup is called by the delivery service when the courier collects the bike.
func (b *Bike) OnPickup() {
	b.SetStatus(BikeStatusOutForDelivery)
}

// OnDropoff is called by the delivery service on hand-over at the destination.
func (b *Bike) OnDropoff() {
	b.SetStatus(BikeStatusDelivered)
}
