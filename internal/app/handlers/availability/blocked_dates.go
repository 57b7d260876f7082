package availability

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
)

const blockedDatesKey = "availability.blocked_dates"

// BlockedDatesQuery lists every future date already at capacity, rendered as
// a blocked-dates calendar before the guest picks a range.
type BlockedDatesQuery struct {
	OfferingID string
}

func (q BlockedDatesQuery) Key() string { return blockedDatesKey }

type BlockedDatesHandler struct {
	Offerings domainoffering.Repository
	Checker   domainavailability.Checker
	Now       func() time.Time
}

func (h *BlockedDatesHandler) Handle(ctx context.Context, q BlockedDatesQuery) (dto.BlockedDates, error) {
	off, err := h.Offerings.ByID(ctx, domainoffering.OfferingID(q.OfferingID))
	if err != nil {
		return dto.BlockedDates{}, err
	}
	dates, err := h.Checker.FullyBookedDates(ctx, off.ID, off.Capacity, h.now())
	if err != nil {
		return dto.BlockedDates{}, err
	}
	return dto.MapBlockedDates(q.OfferingID, dates), nil
}

func (h *BlockedDatesHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ queries.Handler[BlockedDatesQuery, dto.BlockedDates] = (*BlockedDatesHandler)(nil)
