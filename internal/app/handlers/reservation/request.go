package reservation

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/policies"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
	domainpricing "staybook/internal/domain/pricing"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

const requestKey = "reservation.request"

// ErrUnavailable rejects a request whose range no longer fits capacity.
var ErrUnavailable = errors.New("reservation: requested dates are no longer available")

// RequestCommand creates a reservation carrying the engine-quoted total and
// token amounts. Confirmed requests go through the store's guarded insert
// when available, closing the check-then-write race.
type RequestCommand struct {
	CommandID      string
	OfferingID     string
	GuestID        string
	CheckIn        time.Time
	CheckOut       time.Time
	Adults         int
	Children5To8   int
	ChildrenBelow5 int
	Tier           int
	Confirmed      bool
}

func (c RequestCommand) Key() string { return requestKey }

type RequestHandler struct {
	Offerings domainoffering.Repository
	Store     domainreservation.Store
	Checker   domainavailability.Checker
	Engine    domainpricing.Engine
	Publisher policies.EventPublisher
	Now       func() time.Time
}

func (h *RequestHandler) Handle(ctx context.Context, cmd RequestCommand) (dto.Reservation, error) {
	dr, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return dto.Reservation{}, err
	}
	occ := domainreservation.Occupancy{
		Adults:         cmd.Adults,
		Children5To8:   cmd.Children5To8,
		ChildrenBelow5: cmd.ChildrenBelow5,
	}
	if err := occ.Validate(); err != nil {
		return dto.Reservation{}, err
	}

	off, err := h.Offerings.ByID(ctx, domainoffering.OfferingID(cmd.OfferingID))
	if err != nil {
		return dto.Reservation{}, err
	}

	ok, err := h.Checker.IsAvailable(ctx, off.ID, dr, off.Capacity)
	if err != nil {
		return dto.Reservation{}, err
	}
	if !ok {
		return dto.Reservation{}, ErrUnavailable
	}

	now := h.now()
	breakdown, err := h.Engine.Quote(domainpricing.QuoteInput{
		Offering:  off,
		Occupancy: occ,
		Range:     dr,
		Tier:      domainpricing.Tier(cmd.Tier),
		Today:     now,
	})
	if err != nil {
		return dto.Reservation{}, err
	}

	r, err := domainreservation.New(domainreservation.CreateParams{
		ID:         domainreservation.ReservationID(cmd.CommandID),
		OfferingID: off.ID,
		GuestID:    cmd.GuestID,
		Range:      dr,
		Occupancy:  occ,
		Confirmed:  cmd.Confirmed,
		Total:      breakdown.Total,
		TokenPaid:  breakdown.TokenPayable,
		CreatedAt:  now,
	})
	if err != nil {
		return dto.Reservation{}, err
	}

	if err := h.persist(ctx, r, off.Capacity); err != nil {
		return dto.Reservation{}, err
	}

	pending := r.PendingEvents()
	r.ClearEvents()
	if err := policies.PublishAll(ctx, h.Publisher, pending); err != nil {
		return dto.Reservation{}, err
	}
	return dto.MapReservation(r), nil
}

// persist prefers the store's atomic capacity-guarded insert for confirmed
// reservations; pending reservations never block capacity so a plain create
// suffices.
func (h *RequestHandler) persist(ctx context.Context, r *domainreservation.Reservation, capacity int) error {
	if r.Status == domainreservation.StatusConfirmed {
		if guarded, ok := h.Store.(domainreservation.GuardedStore); ok {
			err := guarded.CreateIfAvailable(ctx, r, capacity)
			if errors.Is(err, domainreservation.ErrCapacityExceeded) {
				return ErrUnavailable
			}
			return err
		}
	}
	return h.Store.Create(ctx, r)
}

func (h *RequestHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestCommand, dto.Reservation] = (*RequestHandler)(nil)
