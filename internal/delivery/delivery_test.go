package delivery

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-rental-marketplace/internal/domain"
)

type recorder struct {
	pickups, dropoffs int
}

func (r *recorder) OnPickup()  { r.pickups++ }
func (r *recorder) OnDropoff() { r.dropoffs++ }

func TestScheduler(t *testing.T) {
	ctx := context.Background()
	shop := domain.MustLocation("EH1 1AA", "1 Shop St.")
	home := domain.MustLocation("EH2 2BB", "2 Home Rd.")
	day := domain.Date(2024, 6, 1)

	t.Run("Pickups are grouped by day", func(t *testing.T) {
		s := NewScheduler()
		a, b := &recorder{}, &recorder{}
		s.ScheduleDelivery(ctx, a, shop, home, day)
		s.ScheduleDelivery(ctx, b, shop, home, day.AddDate(0, 0, 1))

		assert.Equal(t, []Deliverable{a}, s.PickupsScheduledOn(day))
		assert.Equal(t, []Deliverable{b}, s.PickupsScheduledOn(day.AddDate(0, 0, 1)))
		assert.Empty(t, s.PickupsScheduledOn(day.AddDate(0, 0, 2)))
	})

	t.Run("Pickup then dropoff", func(t *testing.T) {
		s := NewScheduler()
		a := &recorder{}
		s.ScheduleDelivery(ctx, a, shop, home, day)

		assert.Equal(t, 0, s.ExecutePickups(day.AddDate(0, 0, -1)))
		assert.Equal(t, 1, s.ExecutePickups(day))
		assert.Equal(t, 1, a.pickups)
		assert.Empty(t, s.PickupsScheduledOn(day))
		require.Len(t, s.InTransit(), 1)

		assert.Equal(t, 1, s.ExecuteDropoffs())
		assert.Equal(t, 1, a.dropoffs)
		assert.Empty(t, s.InTransit())
		assert.Equal(t, 0, s.ExecuteDropoffs())
	})

	t.Run("Missed days are caught up", func(t *testing.T) {
		s := NewScheduler()
		early, late, future := &recorder{}, &recorder{}, &recorder{}
		s.ScheduleDelivery(ctx, early, shop, home, day)
		s.ScheduleDelivery(ctx, late, shop, home, day.AddDate(0, 0, 2))
		s.ScheduleDelivery(ctx, future, shop, home, day.AddDate(0, 0, 5))

		assert.Equal(t, 2, s.ExecutePickups(day.AddDate(0, 0, 3)))
		assert.Equal(t, 1, early.pickups)
		assert.Equal(t, 1, late.pickups)
		assert.Equal(t, 0, future.pickups)

		transit := s.InTransit()
		require.Len(t, transit, 2)
		assert.Equal(t, day, transit[0].PickupDate)
		assert.Equal(t, day.AddDate(0, 0, 2), transit[1].PickupDate)
		assert.Len(t, s.PickupsScheduledOn(day.AddDate(0, 0, 5)), 1)
	})

	t.Run("Bike status follows the courier", func(t *testing.T) {
		s := NewScheduler()
		bike := domain.NewBike(domain.NewBikeType("BMX", decimal.NewFromInt(235)))
		s.ScheduleDelivery(ctx, bike, shop, home, day)

		s.ExecutePickups(day)
		assert.Equal(t, domain.BikeStatusOutForDelivery, bike.Status())
		s.ExecuteDropoffs()
		assert.Equal(t, domain.BikeStatusDelivered, bike.Status())
	})
}
