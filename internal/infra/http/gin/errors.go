package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	reservationapp "staybook/internal/app/handlers/reservation"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
	domainpricing "staybook/internal/domain/pricing"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

// writeError maps engine errors onto HTTP statuses. Store failures become 503
// so the booking flow blocks instead of assuming availability.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainreservation.ErrInvalidOccupancy),
		errors.Is(err, domainreservation.ErrGuestID),
		errors.Is(err, domainpricing.ErrInvalidTier),
		errors.Is(err, reservationapp.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainoffering.ErrNotFound),
		errors.Is(err, domainreservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reservationapp.ErrUnavailable),
		errors.Is(err, domainreservation.ErrCapacityExceeded),
		errors.Is(err, domainreservation.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainavailability.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domainoffering.ErrNoRates):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
