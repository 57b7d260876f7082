package offering

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrNotFound        = errors.New("offering: not found")
	ErrNameRequired    = errors.New("offering: name is required")
	ErrInvalidKind     = errors.New("offering: unknown offering kind")
	ErrInvalidCapacity = errors.New("offering: capacity must be at least 1")
	ErrInvalidDiscount = errors.New("offering: discount percent must be between 0 and 100")
	ErrNoRates         = errors.New("offering: no flat rate or bracket rates configured")
)

type OfferingID string

// Kind distinguishes the three sellable shapes. It also selects the pricing
// strategy: hotel rooms price per night at an occupancy-banded flat rate,
// properties and tours price per person.
type Kind string

const (
	KindProperty  Kind = "property"
	KindHotelRoom Kind = "hotel_room"
	KindTour      Kind = "tour"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProperty, KindHotelRoom, KindTour:
		return true
	}
	return false
}

// RateTable is the per-offering pricing data. Bracket rates, when present,
// override the flat rate for the matching headcount band; the flat rate is
// the fallback.
type RateTable struct {
	Flat money.Money
	// Occupancy brackets keyed by total headcount: exactly one, exactly two,
	// three or more. A zero amount means the bracket is absent.
	One   money.Money
	Two   money.Money
	Extra money.Money
}

func (t RateTable) hasBrackets() bool {
	return !t.One.IsZero() || !t.Two.IsZero() || !t.Extra.IsZero()
}

// RateForHeadcount selects the bracket rate for the given total headcount,
// falling back to the flat rate when the matching bracket is absent.
func (t RateTable) RateForHeadcount(headcount int) (money.Money, error) {
	rate := t.Flat
	if t.hasBrackets() {
		switch {
		case headcount <= 1 && !t.One.IsZero():
			rate = t.One
		case headcount == 2 && !t.Two.IsZero():
			rate = t.Two
		case headcount > 2 && !t.Extra.IsZero():
			rate = t.Extra
		}
	}
	if rate.IsZero() {
		return money.Money{}, ErrNoRates
	}
	return rate, nil
}

// Offering is a sellable entity: a whole homestay property, a hotel room
// category, or a tour departure. Capacity is the number of interchangeable
// units sellable concurrently on any given night.
type Offering struct {
	ID              OfferingID
	Name            string
	Kind            Kind
	Capacity        int
	DiscountPercent int
	Rates           RateTable
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id OfferingID) (*Offering, error)
	Save(ctx context.Context, off *Offering) error
	List(ctx context.Context) ([]*Offering, error)
}

type CreateParams struct {
	ID              OfferingID
	Name            string
	Kind            Kind
	Capacity        int
	DiscountPercent int
	Rates           RateTable
	CreatedAt       time.Time
}

func New(params CreateParams) (*Offering, error) {
	off := &Offering{
		ID:              params.ID,
		Name:            params.Name,
		Kind:            params.Kind,
		Capacity:        params.Capacity,
		DiscountPercent: params.DiscountPercent,
		Rates:           params.Rates,
		CreatedAt:       params.CreatedAt.UTC(),
		UpdatedAt:       params.CreatedAt.UTC(),
	}
	if err := off.Validate(); err != nil {
		return nil, err
	}
	return off, nil
}

func (o *Offering) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrNameRequired
	}
	if !o.Kind.Valid() {
		return ErrInvalidKind
	}
	if o.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if o.DiscountPercent < 0 || o.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}
	if o.Rates.Flat.IsZero() && !o.Rates.hasBrackets() {
		return ErrNoRates
	}
	return nil
}

// Currency reports the currency of the offering's rate table.
func (o *Offering) Currency() string {
	if !o.Rates.Flat.IsZero() {
		return o.Rates.Flat.Currency
	}
	for _, m := range []money.Money{o.Rates.One, o.Rates.Two, o.Rates.Extra} {
		if !m.IsZero() {
			return m.Currency
		}
	}
	return ""
}
