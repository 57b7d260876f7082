package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/availability"
	"staybook/internal/domain/offering"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const offeringID = offering.OfferingID("villa-1")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newChecker(t *testing.T) (availability.Checker, *memory.ReservationStore) {
	t.Helper()
	store := memory.NewReservationStore()
	return availability.NewChecker(store), store
}

func confirmedStay(t *testing.T, store *memory.ReservationStore, id string, checkIn, checkOut time.Time) {
	t.Helper()
	seedStay(t, store, id, checkIn, checkOut, true)
}

func seedStay(t *testing.T, store *memory.ReservationStore, id string, checkIn, checkOut time.Time, confirmed bool) {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	r, err := reservation.New(reservation.CreateParams{
		ID:         reservation.ReservationID(id),
		OfferingID: offeringID,
		GuestID:    "guest-" + id,
		Range:      dr,
		Occupancy:  reservation.Occupancy{Adults: 2},
		Confirmed:  confirmed,
		Total:      money.Must(1000, "INR"),
		TokenPaid:  money.Must(250, "INR"),
		CreatedAt:  day(2024, time.January, 1),
	})
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), r))
}

func requestRange(t *testing.T, checkIn, checkOut time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	return dr
}

// =============================================================================
// CAPACITY COUNTING
// =============================================================================

func TestIsAvailable_EmptyStore(t *testing.T) {
	checker, _ := newChecker(t)

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.June, 10), day(2024, time.June, 12)), 1)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_SharedBoundaryDateDoesNotConflict(t *testing.T) {
	// Existing stay checks out on the day the new stay checks in; with
	// capacity 1 the request must still be accepted.
	checker, store := newChecker(t)
	confirmedStay(t, store, "r1", day(2024, time.January, 5), day(2024, time.January, 10))

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.January, 1), day(2024, time.January, 5)), 1)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_NightAtCapacityBlocks(t *testing.T) {
	checker, store := newChecker(t)
	confirmedStay(t, store, "r1", day(2024, time.January, 3), day(2024, time.January, 6))

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.January, 5), day(2024, time.January, 8)), 1)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAvailable_PendingAndCancelledNeverBlock(t *testing.T) {
	checker, store := newChecker(t)
	seedStay(t, store, "pending", day(2024, time.January, 3), day(2024, time.January, 6), false)

	cancelled, err := reservation.New(reservation.CreateParams{
		ID:         "cancelled",
		OfferingID: offeringID,
		GuestID:    "guest-x",
		Range:      requestRange(t, day(2024, time.January, 3), day(2024, time.January, 6)),
		Occupancy:  reservation.Occupancy{Adults: 1},
		Confirmed:  true,
		Total:      money.Must(1000, "INR"),
		TokenPaid:  money.Must(500, "INR"),
		CreatedAt:  day(2024, time.January, 1),
	})
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel("plans changed", day(2024, time.January, 2)))
	require.NoError(t, store.Create(context.Background(), cancelled))

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.January, 4), day(2024, time.January, 5)), 1)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_NonCoincidingNightsDoNotAccumulate(t *testing.T) {
	// Ten non-overlapping single-night stays must not block a long request
	// at capacity 2: only same-night concurrency matters.
	checker, store := newChecker(t)
	for i := 0; i < 10; i++ {
		confirmedStay(t, store, string(rune('a'+i)),
			day(2024, time.March, 1+i), day(2024, time.March, 2+i))
	}

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.March, 1), day(2024, time.March, 11)), 2)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_EndToEndScenario(t *testing.T) {
	// Capacity 2, stays covering 06-10..06-12 and 06-11..06-14. The night of
	// 06-11 is at capacity, so 06-11..06-13 must be rejected while
	// 06-12..06-14 fits.
	checker, store := newChecker(t)
	confirmedStay(t, store, "r1", day(2024, time.June, 10), day(2024, time.June, 12))
	confirmedStay(t, store, "r2", day(2024, time.June, 11), day(2024, time.June, 14))

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.June, 11), day(2024, time.June, 13)), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.June, 12), day(2024, time.June, 14)), 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailable_Idempotent(t *testing.T) {
	checker, store := newChecker(t)
	confirmedStay(t, store, "r1", day(2024, time.June, 10), day(2024, time.June, 12))
	dr := requestRange(t, day(2024, time.June, 11), day(2024, time.June, 13))

	first, err := checker.IsAvailable(context.Background(), offeringID, dr, 1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := checker.IsAvailable(context.Background(), offeringID, dr, 1)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestIsAvailable_InvalidInputs(t *testing.T) {
	checker, _ := newChecker(t)

	_, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.June, 10), day(2024, time.June, 12)), 0)
	assert.ErrorIs(t, err, availability.ErrInvalidCapacity)

	d := day(2024, time.June, 10)
	_, err = checker.IsAvailable(context.Background(), offeringID,
		daterange.DateRange{CheckIn: d, CheckOut: d}, 1)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestIsAvailable_StoreFailureFailsClosed(t *testing.T) {
	checker, store := newChecker(t)
	store.FailWith = errors.New("connection reset")

	ok, err := checker.IsAvailable(context.Background(), offeringID,
		requestRange(t, day(2024, time.June, 10), day(2024, time.June, 12)), 1)

	assert.ErrorIs(t, err, availability.ErrStoreUnavailable)
	assert.False(t, ok, "a failed query must never read as available")
}

// =============================================================================
// FULLY BOOKED DATES
// =============================================================================

func TestFullyBookedDates(t *testing.T) {
	checker, store := newChecker(t)
	today := day(2024, time.June, 10)
	confirmedStay(t, store, "r1", day(2024, time.June, 10), day(2024, time.June, 12))
	confirmedStay(t, store, "r2", day(2024, time.June, 11), day(2024, time.June, 14))

	full, err := checker.FullyBookedDates(context.Background(), offeringID, 2, today)

	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.Equal(t, day(2024, time.June, 11), full[0])
}

func TestFullyBookedDates_SkipsPastNights(t *testing.T) {
	checker, store := newChecker(t)
	confirmedStay(t, store, "r1", day(2024, time.June, 1), day(2024, time.June, 20))

	full, err := checker.FullyBookedDates(context.Background(), offeringID, 1, day(2024, time.June, 15))

	require.NoError(t, err)
	require.Len(t, full, 5)
	assert.Equal(t, day(2024, time.June, 15), full[0])
	assert.Equal(t, day(2024, time.June, 19), full[4])
}

func TestFullyBookedDates_StoreFailure(t *testing.T) {
	checker, store := newChecker(t)
	store.FailWith = errors.New("timeout")

	_, err := checker.FullyBookedDates(context.Background(), offeringID, 1, day(2024, time.June, 1))
	assert.ErrorIs(t, err, availability.ErrStoreUnavailable)
}
