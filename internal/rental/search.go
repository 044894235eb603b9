package rental

import "bike-rental-marketplace/internal/domain"

// Search collects quotes from the providers near location, in provider
// order. Providers that cannot fill the request are skipped.
func Search(location domain.Location, requested map[*domain.BikeType]int, dates domain.DateRange, providers []*BikeProvider) []*Quote {
	var quotes []*Quote
	for _, p := range providers {
		if !p.Location().IsNearTo(location) {
			continue
		}
		if q, ok := p.GenerateQuote(requested, dates); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}
