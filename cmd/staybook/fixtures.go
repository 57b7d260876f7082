package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	domainoffering "staybook/internal/domain/offering"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/config"
)

type offeringFixture struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	Capacity        int    `json:"capacity"`
	DiscountPercent int    `json:"discount_percent"`
	Currency        string `json:"currency"`
	FlatRate        int64  `json:"flat_rate"`
	RateOne         int64  `json:"rate_one"`
	RateTwo         int64  `json:"rate_two"`
	RateExtra       int64  `json:"rate_extra"`
}

// loadOfferingFixtures seeds the catalog from a JSON file, falling back to a
// small demo set when running on memory storage with no file configured.
func loadOfferingFixtures(ctx context.Context, cfg config.Config, repo domainoffering.Repository, logger *slog.Logger) error {
	var fixtures []offeringFixture
	switch {
	case cfg.FixturesPath != "":
		raw, err := os.ReadFile(cfg.FixturesPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &fixtures); err != nil {
			return fmt.Errorf("fixtures: parse %s: %w", cfg.FixturesPath, err)
		}
	case cfg.StorageMode == "memory":
		fixtures = demoOfferings()
	default:
		return nil
	}

	now := time.Now().UTC()
	for _, f := range fixtures {
		rate := func(amount int64) money.Money {
			if amount == 0 {
				return money.Money{}
			}
			return money.Must(amount, f.Currency)
		}
		off, err := domainoffering.New(domainoffering.CreateParams{
			ID:              domainoffering.OfferingID(f.ID),
			Name:            f.Name,
			Kind:            domainoffering.Kind(f.Kind),
			Capacity:        f.Capacity,
			DiscountPercent: f.DiscountPercent,
			Rates: domainoffering.RateTable{
				Flat:  rate(f.FlatRate),
				One:   rate(f.RateOne),
				Two:   rate(f.RateTwo),
				Extra: rate(f.RateExtra),
			},
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("fixtures: offering %s: %w", f.ID, err)
		}
		if err := repo.Save(ctx, off); err != nil {
			return err
		}
	}
	logger.Info("offering fixtures loaded", "count", len(fixtures))
	return nil
}

func demoOfferings() []offeringFixture {
	return []offeringFixture{
		{ID: "riverside-villa", Name: "Riverside Villa", Kind: "property", Capacity: 1, DiscountPercent: 10, Currency: "INR", FlatRate: 4500},
		{ID: "deluxe-double", Name: "Deluxe Double Room", Kind: "hotel_room", Capacity: 8, Currency: "INR", FlatRate: 3200, RateOne: 2800, RateTwo: 3600, RateExtra: 1200},
		{ID: "valley-trek", Name: "Valley Trek Weekend", Kind: "tour", Capacity: 12, Currency: "INR", FlatRate: 2100},
	}
}
