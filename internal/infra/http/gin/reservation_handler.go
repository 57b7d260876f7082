package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	reservationapp "staybook/internal/app/handlers/reservation"
	"staybook/internal/domain/shared/daterange"
)

type ReservationHandler struct {
	Commands commands.Bus
}

type createReservationRequest struct {
	OfferingID     string `json:"offering_id" binding:"required"`
	GuestID        string `json:"guest_id" binding:"required"`
	CheckIn        string `json:"check_in" binding:"required"`
	CheckOut       string `json:"check_out" binding:"required"`
	Adults         int    `json:"adults"`
	Children5To8   int    `json:"children_5_8"`
	ChildrenBelow5 int    `json:"children_below_5"`
	Tier           int    `json:"token_tier"`
	Confirmed      bool   `json:"confirmed"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := daterange.ParseDay(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := daterange.ParseDay(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	cmd := reservationapp.RequestCommand{
		CommandID:      uuid.NewString(),
		OfferingID:     req.OfferingID,
		GuestID:        req.GuestID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Adults:         req.Adults,
		Children5To8:   req.Children5To8,
		ChildrenBelow5: req.ChildrenBelow5,
		Tier:           req.Tier,
		Confirmed:      req.Confirmed,
	}
	result, err := commands.Dispatch[reservationapp.RequestCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h ReservationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationapp.UpdateStatusCommand{
		ReservationID: c.Param("id"),
		Status:        req.Status,
		Reason:        req.Reason,
	}
	result, err := commands.Dispatch[reservationapp.UpdateStatusCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) Delete(c *gin.Context) {
	cmd := reservationapp.DeleteCommand{ReservationID: c.Param("id")}
	result, err := commands.Dispatch[reservationapp.DeleteCommand, reservationapp.DeleteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReservationHTTP = ReservationHandler{}
