package daterange

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

const dayLayout = "2006-01-02"

// DateRange represents a half-open interval [checkIn, checkOut) of whole
// calendar days. Time-of-day components are dropped on construction so that
// interval arithmetic never crosses a day boundary.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day truncates t to midnight UTC, the canonical form for all calendar dates
// in this codebase.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("daterange: parse %q: %w", s, err)
	}
	return t, nil
}

// FormatDay renders a calendar date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the number of occupied nights, i.e. the number of days in the
// half-open interval.
func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open intervals share at least one night.
// A checkout on another range's checkin day is not an overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// ContainsDate reports whether the night starting at t falls inside the range.
func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

// Days returns every night of the stay in ascending order: check-in included,
// checkout excluded.
func (dr DateRange) Days() []time.Time {
	days := make([]time.Time, 0, dr.Nights())
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysUntil is the whole-day lead time from "from" to the check-in date.
// Negative when check-in is already in the past.
func (dr DateRange) DaysUntil(from time.Time) int {
	return int(dr.CheckIn.Sub(Day(from)).Hours() / 24)
}

func (dr DateRange) String() string {
	return FormatDay(dr.CheckIn) + ".." + FormatDay(dr.CheckOut)
}
