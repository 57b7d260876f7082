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
	domainreservation "staybook/internal/domain/reservation"
)

const updateStatusKey = "reservation.update_status"

var ErrUnknownStatus = errors.New("reservation: unknown status")

// UpdateStatusCommand is the administrative confirm/cancel transition.
// Confirming re-checks capacity first: a pending reservation does not hold
// inventory, so the nights may have filled up since it was requested.
type UpdateStatusCommand struct {
	ReservationID string
	Status        string
	Reason        string
}

func (c UpdateStatusCommand) Key() string { return updateStatusKey }

type UpdateStatusHandler struct {
	Offerings domainoffering.Repository
	Store     domainreservation.Store
	Checker   domainavailability.Checker
	Publisher policies.EventPublisher
	Now       func() time.Time
}

func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (dto.Reservation, error) {
	status := domainreservation.Status(cmd.Status)
	if !status.Valid() {
		return dto.Reservation{}, ErrUnknownStatus
	}
	r, err := h.Store.ByID(ctx, domainreservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return dto.Reservation{}, err
	}
	now := h.now()

	switch status {
	case domainreservation.StatusConfirmed:
		off, err := h.Offerings.ByID(ctx, r.OfferingID)
		if err != nil {
			return dto.Reservation{}, err
		}
		ok, err := h.Checker.IsAvailable(ctx, r.OfferingID, r.Range, off.Capacity)
		if err != nil {
			return dto.Reservation{}, err
		}
		if !ok {
			return dto.Reservation{}, ErrUnavailable
		}
		if err := r.Confirm(now); err != nil {
			return dto.Reservation{}, err
		}
	case domainreservation.StatusCancelled:
		if err := r.Cancel(cmd.Reason, now); err != nil {
			return dto.Reservation{}, err
		}
	default:
		return dto.Reservation{}, domainreservation.ErrInvalidState
	}

	if err := h.Store.Save(ctx, r); err != nil {
		return dto.Reservation{}, err
	}

	pending := r.PendingEvents()
	r.ClearEvents()
	if err := policies.PublishAll(ctx, h.Publisher, pending); err != nil {
		return dto.Reservation{}, err
	}
	return dto.MapReservation(r), nil
}

func (h *UpdateStatusHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[UpdateStatusCommand, dto.Reservation] = (*UpdateStatusHandler)(nil)
