package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"staybook/internal/domain/offering"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

var (
	// ErrStoreUnavailable means the reservation query could not be completed.
	// Callers must treat it as "cannot confirm availability", never as
	// "available".
	ErrStoreUnavailable = errors.New("availability: reservation store unavailable")
	ErrInvalidCapacity  = errors.New("availability: capacity must be at least 1")
)

// OverlapLister is the slice of the reservation store the checker needs.
type OverlapLister interface {
	ListOverlapping(ctx context.Context, offeringID offering.OfferingID, dr daterange.DateRange, status reservation.Status) ([]*reservation.Reservation, error)
	ListFrom(ctx context.Context, offeringID offering.OfferingID, from time.Time, status reservation.Status) ([]*reservation.Reservation, error)
}

// Checker decides whether a unit of inventory can be sold for a date range
// without pushing any night's confirmed-reservation count to capacity.
// It is read-only; the durability guarantee against the check-then-write race
// belongs to the store (see reservation.GuardedStore implementations).
type Checker struct {
	Reservations OverlapLister
}

func NewChecker(store OverlapLister) Checker {
	return Checker{Reservations: store}
}

// IsAvailable reports whether a new reservation for dr fits. Capacity is
// per-night: a day already holding capacity confirmed reservations blocks the
// whole request, while non-coinciding reservations elsewhere in the range do
// not.
func (c Checker) IsAvailable(ctx context.Context, offeringID offering.OfferingID, dr daterange.DateRange, capacity int) (bool, error) {
	if capacity < 1 {
		return false, ErrInvalidCapacity
	}
	if err := dr.Validate(); err != nil {
		return false, err
	}
	existing, err := c.Reservations.ListOverlapping(ctx, offeringID, dr, reservation.StatusConfirmed)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for _, day := range dr.Days() {
		count := 0
		for _, r := range existing {
			if r.Range.ContainsDate(day) {
				count++
			}
		}
		if count >= capacity {
			return false, nil
		}
	}
	return true, nil
}

// FullyBookedDates returns every date from today onward whose confirmed
// concurrency has reached capacity, sorted ascending. It feeds the
// blocked-dates calendar shown before the guest picks a range.
func (c Checker) FullyBookedDates(ctx context.Context, offeringID offering.OfferingID, capacity int, today time.Time) ([]time.Time, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	today = daterange.Day(today)
	existing, err := c.Reservations.ListFrom(ctx, offeringID, today, reservation.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	counts := make(map[time.Time]int)
	for _, r := range existing {
		for _, day := range r.Range.Days() {
			if day.Before(today) {
				continue
			}
			counts[day]++
		}
	}
	var full []time.Time
	for day, count := range counts {
		if count >= capacity {
			full = append(full, day)
		}
	}
	sort.Slice(full, func(i, j int) bool { return full[i].Before(full[j]) })
	return full, nil
}
