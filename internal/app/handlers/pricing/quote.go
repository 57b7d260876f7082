package pricing

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	domainoffering "staybook/internal/domain/offering"
	domainpricing "staybook/internal/domain/pricing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

const quoteKey = "pricing.quote"

// QuoteQuery prices a prospective stay. The booking flow re-asks it on every
// occupancy, date, or tier change.
type QuoteQuery struct {
	OfferingID     string
	CheckIn        time.Time
	CheckOut       time.Time
	Adults         int
	Children5To8   int
	ChildrenBelow5 int
	Tier           int
}

func (q QuoteQuery) Key() string { return quoteKey }

type QuoteHandler struct {
	Offerings domainoffering.Repository
	Engine    domainpricing.Engine
	Now       func() time.Time
}

func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (dto.Quote, error) {
	dr, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Quote{}, err
	}
	off, err := h.Offerings.ByID(ctx, domainoffering.OfferingID(q.OfferingID))
	if err != nil {
		return dto.Quote{}, err
	}
	breakdown, err := h.Engine.Quote(domainpricing.QuoteInput{
		Offering: off,
		Occupancy: reservation.Occupancy{
			Adults:         q.Adults,
			Children5To8:   q.Children5To8,
			ChildrenBelow5: q.ChildrenBelow5,
		},
		Range: dr,
		Tier:  domainpricing.Tier(q.Tier),
		Today: h.now(),
	})
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(q.OfferingID, breakdown), nil
}

func (h *QuoteHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ queries.Handler[QuoteQuery, dto.Quote] = (*QuoteHandler)(nil)
