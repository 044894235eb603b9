// Package delivery is the courier side of the marketplace: providers hand it
// bikes to move between locations and it reports pickup and dropoff back to
// each item.
package delivery

import (
	"context"
	"sort"
	"sync"
	"time"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/metrics"
)

// Deliverable is anything the courier can carry. Bikes implement it.
type Deliverable interface {
	OnPickup()
	OnDropoff()
}

// Service accepts delivery jobs.
type Service interface {
	ScheduleDelivery(ctx context.Context, item Deliverable, pickup, dropoff domain.Location, pickupDate time.Time)
}

// Job is one scheduled movement of an item.
type Job struct {
	Item       Deliverable
	Pickup     domain.Location
	Dropoff    domain.Location
	PickupDate time.Time
}

// Scheduler is an in-memory Service. Jobs wait in a per-day queue until
// ExecutePickups runs for that day, then sit in transit until ExecuteDropoffs.
type Scheduler struct {
	mu        sync.Mutex
	pending   map[time.Time][]Job
	inTransit []Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[time.Time][]Job)}
}

func (s *Scheduler) ScheduleDelivery(ctx context.Context, item Deliverable, pickup, dropoff domain.Location, pickupDate time.Time) {
	day := domain.TruncateToDate(pickupDate)
	s.mu.Lock()
	s.pending[day] = append(s.pending[day], Job{Item: item, Pickup: pickup, Dropoff: dropoff, PickupDate: day})
	s.mu.Unlock()

	metrics.DeliveriesScheduledTotal.Inc()
	logger.Get().DebugContext(ctx, "Delivery scheduled",
		"pickup", pickup.Postcode, "dropoff", dropoff.Postcode, "date", day.Format(domain.DateLayout))
}

// PickupsScheduledOn lists the items waiting to be collected on date.
func (s *Scheduler) PickupsScheduledOn(date time.Time) []Deliverable {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := s.pending[domain.TruncateToDate(date)]
	items := make([]Deliverable, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, j.Item)
	}
	return items
}

// ExecutePickups collects every item due on or before date, oldest day
// first, and returns how many were picked up. Days missed by an earlier run
// are caught up here.
func (s *Scheduler) ExecutePickups(date time.Time) int {
	day := domain.TruncateToDate(date)
	s.mu.Lock()
	var due []time.Time
	for d := range s.pending {
		if !d.After(day) {
			due = append(due, d)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Before(due[j]) })
	var jobs []Job
	for _, d := range due {
		jobs = append(jobs, s.pending[d]...)
		delete(s.pending, d)
	}
	s.inTransit = append(s.inTransit, jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		j.Item.OnPickup()
	}
	logger.Info("Pickups executed", "date", day.Format(domain.DateLayout), "days", len(due), "count", len(jobs))
	return len(jobs)
}

// ExecuteDropoffs hands over everything in transit and returns how many
// items were delivered.
func (s *Scheduler) ExecuteDropoffs() int {
	s.mu.Lock()
	jobs := s.inTransit
	s.inTransit = nil
	s.mu.Unlock()

	for _, j := range jobs {
		j.Item.OnDropoff()
	}
	logger.Info("Dropoffs executed", "count", len(jobs))
	return len(jobs)
}

// InTransit returns the jobs picked up but not yet dropped off.
func (s *Scheduler) InTransit() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, len(s.inTransit))
	copy(out, s.inTransit)
	return out
}
