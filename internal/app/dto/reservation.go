package dto

import (
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

type Reservation struct {
	ID             string `json:"id"`
	OfferingID     string `json:"offering_id"`
	GuestID        string `json:"guest_id"`
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	Adults         int    `json:"adults"`
	Children5To8   int    `json:"children_5_8"`
	ChildrenBelow5 int    `json:"children_below_5"`
	Status         string `json:"status"`
	Currency       string `json:"currency"`
	Total          int64  `json:"total"`
	TokenPaid      int64  `json:"token_paid"`
}

func MapReservation(r *reservation.Reservation) Reservation {
	return Reservation{
		ID:             string(r.ID),
		OfferingID:     string(r.OfferingID),
		GuestID:        r.GuestID,
		CheckIn:        daterange.FormatDay(r.Range.CheckIn),
		CheckOut:       daterange.FormatDay(r.Range.CheckOut),
		Adults:         r.Occupancy.Adults,
		Children5To8:   r.Occupancy.Children5To8,
		ChildrenBelow5: r.Occupancy.ChildrenBelow5,
		Status:         string(r.Status),
		Currency:       r.Total.Currency,
		Total:          r.Total.Amount,
		TokenPaid:      r.TokenPaid.Amount,
	}
}
