package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	pricingapp "staybook/internal/app/handlers/pricing"
	"staybook/internal/app/queries"
	"staybook/internal/domain/shared/daterange"
)

type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Quote(c *gin.Context) {
	checkIn, err := daterange.ParseDay(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := daterange.ParseDay(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	query := pricingapp.QuoteQuery{
		OfferingID:     c.Param("id"),
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Adults:         intQuery(c, "adults", 1),
		Children5To8:   intQuery(c, "children_5_8", 0),
		ChildrenBelow5: intQuery(c, "children_below_5", 0),
		Tier:           intQuery(c, "tier", 0),
	}
	result, err := queries.Ask[pricingapp.QuoteQuery, dto.Quote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

var _ PricingHTTP = PricingHandler{}
