package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"staybook/internal/domain/offering"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var ErrInvalidTier = errors.New("pricing: token tier must be 25 or 50")

// Tier is the guest-chosen token percentage due at booking time.
type Tier int

const (
	TierQuarter Tier = 25
	TierHalf    Tier = 50
)

// UrgentLeadDays is the lead-time threshold at or below which a booking is
// urgent and the token tier is forced to 50%.
const UrgentLeadDays = 15

type QuoteInput struct {
	Offering  *offering.Offering
	Occupancy reservation.Occupancy
	Range     daterange.DateRange
	Tier      Tier
	// Today fixes "now" so quotes are deterministic; the urgency rule is
	// relative to this date.
	Today time.Time
}

// PriceBreakdown is the full guest-facing quote: nightly and total amounts
// plus the payment milestones. TokenPayable + SecondPayable + ArrivalPayable
// always equals Total.
type PriceBreakdown struct {
	Total                 money.Money
	Nights                int
	Nightly               money.Money
	NightlyBeforeDiscount money.Money
	Discount              money.Money
	Weight                decimal.Decimal
	Headcount             int
	Tier                  Tier
	TokenPayable          money.Money
	SecondPayable         money.Money
	ArrivalPayable        money.Money
	Urgent                bool
	LeadTimeDays          int
}

// Engine computes guest-facing prices. It is pure: no I/O, no clock reads,
// safe to re-invoke on every occupancy/date/tier change.
type Engine struct{}

func NewEngine() Engine {
	return Engine{}
}

// Quote prices a stay. Hotel rooms use the occupancy-banded rate as a flat
// per-night total; properties and tours multiply the rate by the occupancy
// weight (per-person pricing). Rounding to whole currency units happens at
// the nightly stage so discount rounding is stable per night.
func (Engine) Quote(in QuoteInput) (PriceBreakdown, error) {
	if err := in.Range.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	if err := in.Occupancy.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	tier := in.Tier
	if tier == 0 {
		tier = TierQuarter
	}
	if tier != TierQuarter && tier != TierHalf {
		return PriceBreakdown{}, ErrInvalidTier
	}

	nights := in.Range.Nights()
	headcount := in.Occupancy.Headcount()
	weight := in.Occupancy.Weight()

	base, err := in.Offering.Rates.RateForHeadcount(headcount)
	if err != nil {
		return PriceBreakdown{}, err
	}
	currency := base.Currency

	effectiveRate := base
	if d := in.Offering.DiscountPercent; d > 0 {
		factor := decimal.NewFromInt(int64(100 - d)).Div(decimal.NewFromInt(100))
		effectiveRate = money.FromDecimal(base.Decimal().Mul(factor), currency)
	}

	nightly := effectiveRate
	nightlyBefore := base
	if in.Offering.Kind != offering.KindHotelRoom {
		nightly = money.FromDecimal(effectiveRate.Decimal().Mul(weight), currency)
		nightlyBefore = money.FromDecimal(base.Decimal().Mul(weight), currency)
	}

	total := nightly.Multiply(int64(nights))
	discount := money.Money{Amount: (nightlyBefore.Amount - nightly.Amount) * int64(nights), Currency: currency}

	leadTime := in.Range.DaysUntil(in.Today)
	urgent := leadTime <= UrgentLeadDays
	effectiveTier := tier
	if urgent {
		effectiveTier = TierHalf
	}

	token := money.FromDecimal(total.Decimal().Mul(decimal.NewFromInt(int64(effectiveTier))).Div(decimal.NewFromInt(100)), currency)
	second := money.Money{Currency: currency}
	if !urgent && effectiveTier == TierQuarter {
		second = money.FromDecimal(total.Decimal().Mul(decimal.NewFromInt(25)).Div(decimal.NewFromInt(100)), currency)
	}
	// Arrival amount is always the remainder so the milestones sum exactly.
	arrival := money.Money{Amount: total.Amount - token.Amount - second.Amount, Currency: currency}

	return PriceBreakdown{
		Total:                 total,
		Nights:                nights,
		Nightly:               nightly,
		NightlyBeforeDiscount: nightlyBefore,
		Discount:              discount,
		Weight:                weight,
		Headcount:             headcount,
		Tier:                  effectiveTier,
		TokenPayable:          token,
		SecondPayable:         second,
		ArrivalPayable:        arrival,
		Urgent:                urgent,
		LeadTimeDays:          leadTime,
	}, nil
}
