package rental

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-rental-marketplace/internal/domain"
)

func TestSearch(t *testing.T) {
	f := newFixture()
	near := domain.MustLocation("KY12 5WE", "")
	dates := week(0)

	t.Run("Only providers that can fill the order", func(t *testing.T) {
		providers := []*BikeProvider{
			f.flatProvider("EnCyclePedia", "KY12 3BB", map[*domain.BikeType]int64{f.bmx: 30, f.yellowBike: 15}),
			f.flatProvider("Puffin Pedals", "KY12 2QY", map[*domain.BikeType]int64{f.bmx: 50, f.yellowBike: 5}),
			f.flatProvider("Wally's Wheelies", "KY12 7EP", map[*domain.BikeType]int64{f.bmx: 75, f.yellowBike: 45}),
		}
		stock(providers[0], f.bmx, 2)
		stock(providers[0], f.yellowBike, 2)
		stock(providers[1], f.bmx, 10)
		stock(providers[1], f.yellowBike, 5)
		stock(providers[2], f.bmx, 30)
		stock(providers[2], f.yellowBike, 50)

		quotes := f.customer.SearchQuotes(near, map[*domain.BikeType]int{f.bmx: 10, f.yellowBike: 15}, dates, providers)
		require.Len(t, quotes, 1)
		assert.Equal(t, "Wally's Wheelies", quotes[0].Provider().Name)
		assert.Equal(t, map[*domain.BikeType]int{f.bmx: 10, f.yellowBike: 15}, quotes[0].Counts())
	})

	t.Run("Provider order is kept", func(t *testing.T) {
		a := f.flatProvider("EnCyclePedia", "KY12 3BB", map[*domain.BikeType]int64{f.bmx: 30})
		b := f.flatProvider("Puffin Pedals", "KY12 2QY", map[*domain.BikeType]int64{f.bmx: 10})
		stock(a, f.bmx, 2)
		stock(b, f.bmx, 2)

		quotes := Search(near, map[*domain.BikeType]int{f.bmx: 2}, dates, []*BikeProvider{a, b})
		require.Len(t, quotes, 2)
		assert.Equal(t, a, quotes[0].Provider())
		assert.Equal(t, b, quotes[1].Provider())
	})

	t.Run("Providers elsewhere are skipped", func(t *testing.T) {
		far := f.flatProvider("Tour d'Ecosse", "HU14 7UP", map[*domain.BikeType]int64{f.bmx: 30})
		stock(far, f.bmx, 20)

		quotes := Search(near, map[*domain.BikeType]int{f.bmx: 10}, dates, []*BikeProvider{far})
		assert.Empty(t, quotes)
	})
}

func TestMarketplaceFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	x := f.bmx
	shop := f.flatProvider("EnCyclePedia", "KY12 3BB", map[*domain.BikeType]int64{x: 30})
	stock(shop, x, 20)
	providers := []*BikeProvider{shop}
	near := domain.MustLocation("KY12 5WE", "")
	dates := week(0)
	overlapping := domain.NewDateRange(dates.Start.AddDate(0, 0, 3), dates.End.AddDate(0, 0, 3))

	quotes := f.customer.SearchQuotes(near, map[*domain.BikeType]int{x: 15}, dates, providers)
	require.Len(t, quotes, 1)

	booking, err := newDesk().MakeBooking(ctx, f.customer, quotes[0], nil, true)
	require.NoError(t, err)

	for _, want := range []int{6, 10} {
		assert.Empty(t, f.customer.SearchQuotes(near, map[*domain.BikeType]int{x: want}, overlapping, providers))
	}
	assert.Len(t, f.customer.SearchQuotes(near, map[*domain.BikeType]int{x: 5}, overlapping, providers), 1)

	later := domain.NewDateRange(dates.End.AddDate(0, 0, 1), dates.End.AddDate(0, 0, 7))
	assert.Len(t, f.customer.SearchQuotes(near, map[*domain.BikeType]int{x: 20}, later, providers), 1)

	assert.Equal(t, ReturnDirect, shop.ReturnOrder(ctx, f.customer, booking.ID()))

	assert.Len(t, f.customer.SearchQuotes(near, map[*domain.BikeType]int{x: 6}, overlapping, providers), 1)
	for _, b := range shop.Stock(x) {
		for _, r := range b.Reservations() {
			assert.False(t, r.Equal(dates))
		}
	}
}
