package dto

import (
	"time"

	"staybook/internal/domain/shared/daterange"
)

type AvailabilityResult struct {
	OfferingID string `json:"offering_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
}

type BlockedDates struct {
	OfferingID string   `json:"offering_id"`
	Dates      []string `json:"dates"`
}

func MapBlockedDates(offeringID string, dates []time.Time) BlockedDates {
	out := BlockedDates{OfferingID: offeringID, Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		out.Dates = append(out.Dates, daterange.FormatDay(d))
	}
	return out
}
