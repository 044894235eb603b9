package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBike_CheckFree(t *testing.T) {
	bmx := NewBikeType("BMX", decimal.NewFromInt(235))
	week := NewDateRange(Date(2024, 6, 1), Date(2024, 6, 8))

	t.Run("No reservations", func(t *testing.T) {
		b := NewBike(bmx)
		assert.True(t, b.CheckFree(week))
		assert.Equal(t, BikeStatusAvailable, b.Status())
	})

	t.Run("Reserved range and overlaps are taken", func(t *testing.T) {
		b := NewBike(bmx)
		b.Reserve(week)
		assert.False(t, b.CheckFree(week))
		assert.False(t, b.CheckFree(NewDateRange(Date(2024, 6, 8), Date(2024, 6, 10))))
		assert.False(t, b.CheckFree(NewDateRange(Date(2024, 5, 25), Date(2024, 6, 1))))
		assert.True(t, b.CheckFree(NewDateRange(Date(2024, 6, 9), Date(2024, 6, 12))))
	})

	t.Run("Release by value", func(t *testing.T) {
		b := NewBike(bmx)
		b.Reserve(week)
		assert.True(t, b.Release(NewDateRange(Date(2024, 6, 1), Date(2024, 6, 8))))
		assert.True(t, b.CheckFree(week))
		assert.Empty(t, b.Reservations())
		assert.False(t, b.Release(week))
	})
}

func TestBike_DeliveryCallbacks(t *testing.T) {
	b := NewBike(NewBikeType("Yellow Bike", decimal.NewFromInt(75)))
	week := NewDateRange(Date(2024, 6, 1), Date(2024, 6, 8))

	b.OnPickup()
	assert.Equal(t, BikeStatusOutForDelivery, b.Status())
	assert.False(t, b.Quotable(week))

	b.OnDropoff()
	assert.Equal(t, BikeStatusDelivered, b.Status())

	b.SetStatus(BikeStatusAvailable)
	assert.True(t, b.Quotable(week))
}

func TestBikeType_Identity(t *testing.T) {
	a := NewBikeType("BMX", decimal.NewFromInt(100))
	b := NewBikeType("BMX", decimal.NewFromInt(100))
	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.ID, b.ID)
}
