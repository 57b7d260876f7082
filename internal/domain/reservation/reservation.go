package reservation

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/offering"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrNotFound     = errors.New("reservation: not found")
	ErrInvalidState = errors.New("reservation: invalid state transition")
	ErrGuestID      = errors.New("reservation: guest id required")
)

type ReservationID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Reservation is a claim on one unit of an offering for a half-open date
// interval. Only confirmed reservations count against inventory capacity.
type Reservation struct {
	ID         ReservationID
	OfferingID offering.OfferingID
	GuestID    string
	Range      daterange.DateRange
	Occupancy  Occupancy
	Status     Status
	Total      money.Money
	TokenPaid  money.Money
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

// Store is the reservation persistence port. ListOverlapping and ListFrom
// filter by status so availability math only ever sees confirmed claims.
type Store interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Save(ctx context.Context, r *Reservation) error
	Delete(ctx context.Context, id ReservationID) error
	ListOverlapping(ctx context.Context, offeringID offering.OfferingID, dr daterange.DateRange, status Status) ([]*Reservation, error)
	ListFrom(ctx context.Context, offeringID offering.OfferingID, from time.Time, status Status) ([]*Reservation, error)
}

type CreateParams struct {
	ID         ReservationID
	OfferingID offering.OfferingID
	GuestID    string
	Range      daterange.DateRange
	Occupancy  Occupancy
	Confirmed  bool
	Total      money.Money
	TokenPaid  money.Money
	CreatedAt  time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if err := params.Occupancy.Validate(); err != nil {
		return nil, err
	}
	if params.GuestID == "" {
		return nil, ErrGuestID
	}
	now := params.CreatedAt.UTC()
	status := StatusPending
	if params.Confirmed {
		status = StatusConfirmed
	}
	r := &Reservation{
		ID:         params.ID,
		OfferingID: params.OfferingID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		Occupancy:  params.Occupancy,
		Status:     status,
		Total:      params.Total,
		TokenPaid:  params.TokenPaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Record(Requested{ReservationID: r.ID, OfferingID: r.OfferingID, GuestID: r.GuestID, Range: r.Range, Total: r.Total, Token: r.TokenPaid, At: now})
	if status == StatusConfirmed {
		r.Record(Confirmed{ReservationID: r.ID, OfferingID: r.OfferingID, Range: r.Range, At: now})
	}
	return r, nil
}

// Confirm promotes a pending reservation; from this point it blocks capacity.
func (r *Reservation) Confirm(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(Confirmed{ReservationID: r.ID, OfferingID: r.OfferingID, Range: r.Range, At: r.UpdatedAt})
	return nil
}

// Cancel releases the claim. Cancelled reservations never block availability.
func (r *Reservation) Cancel(reason string, now time.Time) error {
	if r.Status == StatusCancelled {
		return ErrInvalidState
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now.UTC()
	r.Record(Cancelled{ReservationID: r.ID, OfferingID: r.OfferingID, Reason: reason, At: r.UpdatedAt})
	return nil
}
