package reservation

import (
	"context"

	"staybook/internal/app/commands"
	domainreservation "staybook/internal/domain/reservation"
)

const deleteKey = "reservation.delete"

// DeleteCommand removes a reservation record entirely. Administrative only;
// the engine never deletes reservations itself.
type DeleteCommand struct {
	ReservationID string
}

func (c DeleteCommand) Key() string { return deleteKey }

type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

type DeleteHandler struct {
	Store domainreservation.Store
}

func (h *DeleteHandler) Handle(ctx context.Context, cmd DeleteCommand) (DeleteResult, error) {
	if err := h.Store.Delete(ctx, domainreservation.ReservationID(cmd.ReservationID)); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: true}, nil
}

var _ commands.Handler[DeleteCommand, DeleteResult] = (*DeleteHandler)(nil)
