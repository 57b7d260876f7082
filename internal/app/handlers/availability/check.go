package availability

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
	"staybook/internal/domain/shared/daterange"
)

const checkKey = "availability.check"

// CheckQuery asks whether the offering can take one more reservation for the
// requested range. The booking flow must see a positive answer before
// advancing past date selection.
type CheckQuery struct {
	OfferingID string
	CheckIn    time.Time
	CheckOut   time.Time
}

func (q CheckQuery) Key() string { return checkKey }

type CheckHandler struct {
	Offerings domainoffering.Repository
	Checker   domainavailability.Checker
}

func (h *CheckHandler) Handle(ctx context.Context, q CheckQuery) (dto.AvailabilityResult, error) {
	dr, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	off, err := h.Offerings.ByID(ctx, domainoffering.OfferingID(q.OfferingID))
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	ok, err := h.Checker.IsAvailable(ctx, off.ID, dr, off.Capacity)
	if err != nil {
		return dto.AvailabilityResult{}, err
	}
	return dto.AvailabilityResult{
		OfferingID: q.OfferingID,
		CheckIn:    daterange.FormatDay(dr.CheckIn),
		CheckOut:   daterange.FormatDay(dr.CheckOut),
		Available:  ok,
	}, nil
}

var _ queries.Handler[CheckQuery, dto.AvailabilityResult] = (*CheckHandler)(nil)
