package dto

import (
	"staybook/internal/domain/pricing"
)

type Quote struct {
	OfferingID            string  `json:"offering_id"`
	Currency              string  `json:"currency"`
	Nights                int     `json:"nights"`
	Nightly               int64   `json:"nightly"`
	NightlyBeforeDiscount int64   `json:"nightly_before_discount"`
	Discount              int64   `json:"discount"`
	Total                 int64   `json:"total"`
	Weight                float64 `json:"occupancy_weight"`
	Headcount             int     `json:"headcount"`
	Tier                  int     `json:"token_tier"`
	TokenPayable          int64   `json:"token_payable"`
	SecondPayable         int64   `json:"second_payable"`
	ArrivalPayable        int64   `json:"arrival_payable"`
	Urgent                bool    `json:"urgent"`
	LeadTimeDays          int     `json:"lead_time_days"`
}

func MapQuote(offeringID string, b pricing.PriceBreakdown) Quote {
	weight, _ := b.Weight.Float64()
	return Quote{
		OfferingID:            offeringID,
		Currency:              b.Total.Currency,
		Nights:                b.Nights,
		Nightly:               b.Nightly.Amount,
		NightlyBeforeDiscount: b.NightlyBeforeDiscount.Amount,
		Discount:              b.Discount.Amount,
		Total:                 b.Total.Amount,
		Weight:                weight,
		Headcount:             b.Headcount,
		Tier:                  int(b.Tier),
		TokenPayable:          b.TokenPayable.Amount,
		SecondPayable:         b.SecondPayable.Amount,
		ArrivalPayable:        b.ArrivalPayable.Amount,
		Urgent:                b.Urgent,
		LeadTimeDays:          b.LeadTimeDays,
	}
}
