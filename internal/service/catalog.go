package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/delivery"
	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/pricing"
	"bike-rental-marketplace/internal/rental"
)

// LoadCatalog registers the configured bike types and providers, stocks
// each provider and links partners. Catalog keys become the IDs of the
// created types and providers.
func (m *Marketplace) LoadCatalog(cat config.CatalogConfig, courier delivery.Service) error {
	types := make(map[string]*domain.BikeType, len(cat.BikeTypes))
	for _, c := range cat.BikeTypes {
		value, err := decimal.NewFromString(c.ReplacementValue)
		if err != nil {
			return fmt.Errorf("bike type %s: invalid replacement value %q: %w", c.Key, c.ReplacementValue, err)
		}
		bt := domain.NewBikeType(c.Name, value)
		bt.ID = c.Key
		if err := m.AddBikeType(bt); err != nil {
			return err
		}
		types[c.Key] = bt
	}

	providers := make(map[string]*rental.BikeProvider, len(cat.Providers))
	for _, c := range cat.Providers {
		loc, err := domain.NewLocation(c.Postcode, c.Address)
		if err != nil {
			return fmt.Errorf("provider %s: %w", c.Key, err)
		}
		policy, err := buildPricing(c.Pricing, types)
		if err != nil {
			return fmt.Errorf("provider %s: %w", c.Key, err)
		}

		p := rental.NewBikeProvider(c.Name, loc, policy, pricing.NewFlatValuation(), courier)
		p.ID = c.Key
		// stock in catalog order so quotes are reproducible
		for _, bt := range cat.BikeTypes {
			for i := 0; i < c.Stock[bt.Key]; i++ {
				p.AddBike(domain.NewBike(types[bt.Key]))
			}
		}
		if err := m.AddProvider(p); err != nil {
			return err
		}
		providers[c.Key] = p
	}

	for _, c := range cat.Providers {
		for _, key := range c.Partners {
			partner, ok := providers[key]
			if !ok {
				return fmt.Errorf("provider %s: unknown partner %s", c.Key, key)
			}
			providers[c.Key].AddPartner(partner)
		}
	}

	logger.Info("Catalog loaded", "bike_types", len(types), "providers", len(providers))
	return nil
}

func buildPricing(c config.PricingConfig, types map[string]*domain.BikeType) (pricing.Policy, error) {
	switch c.Kind {
	case "flat":
		policy := pricing.NewFlatPricing()
		for key, raw := range c.DailyRates {
			rate, err := parseRate(key, raw, types)
			if err != nil {
				return nil, err
			}
			if err := policy.SetDailyRentalPrice(types[key], rate); err != nil {
				return nil, err
			}
		}
		return policy, nil

	case "discounted":
		policy := pricing.NewDiscountedPricing()
		for key, raw := range c.DailyRates {
			rate, err := parseRate(key, raw, types)
			if err != nil {
				return nil, err
			}
			if err := policy.AddBikeType(types[key], rate); err != nil {
				return nil, err
			}
		}
		for _, d := range c.Discounts {
			percent, err := decimal.NewFromString(d.Percent)
			if err != nil {
				return nil, fmt.Errorf("invalid discount percent %q: %w", d.Percent, err)
			}
			maxDays := d.MaxDays
			if d.OpenEnded {
				maxDays = pricing.Unbounded
			}
			policy.AddDiscount(pricing.NewDurationDiscount(d.MinDays, maxDays, percent))
		}
		return policy, nil

	default:
		return nil, fmt.Errorf("unknown pricing kind %q", c.Kind)
	}
}

func parseRate(key, raw string, types map[string]*domain.BikeType) (decimal.Decimal, error) {
	if _, ok := types[key]; !ok {
		return decimal.Zero, domain.ConfigurationError{Op: "set daily rental price", BikeType: key, Err: domain.ErrUnknownBikeType}
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid daily rate %q for %s: %w", raw, key, err)
	}
	return rate, nil
}
