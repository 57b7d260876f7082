package reservation

import (
	"time"

	"staybook/internal/domain/offering"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type Requested struct {
	ReservationID ReservationID
	OfferingID    offering.OfferingID
	GuestID       string
	Range         daterange.DateRange
	Total         money.Money
	Token         money.Money
	At            time.Time
}

func (e Requested) EventName() string     { return "reservation.requested" }
func (e Requested) AggregateID() string   { return string(e.ReservationID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	ReservationID ReservationID
	OfferingID    offering.OfferingID
	Range         daterange.DateRange
	At            time.Time
}

func (e Confirmed) EventName() string     { return "reservation.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.ReservationID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	ReservationID ReservationID
	OfferingID    offering.OfferingID
	Reason        string
	At            time.Time
}

func (e Cancelled) EventName() string     { return "reservation.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.ReservationID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }
