package reservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createParams(t *testing.T) reservation.CreateParams {
	t.Helper()
	dr, err := daterange.New(day(2024, time.June, 10), day(2024, time.June, 12))
	require.NoError(t, err)
	return reservation.CreateParams{
		ID:         "res-1",
		OfferingID: "villa-1",
		GuestID:    "guest-1",
		Range:      dr,
		Occupancy:  reservation.Occupancy{Adults: 2},
		Total:      money.Must(1800, "INR"),
		TokenPaid:  money.Must(450, "INR"),
		CreatedAt:  day(2024, time.June, 1),
	}
}

func TestOccupancy(t *testing.T) {
	occ := reservation.Occupancy{Adults: 2, Children5To8: 3, ChildrenBelow5: 1}

	assert.NoError(t, occ.Validate())
	assert.Equal(t, 6, occ.Headcount())
	assert.Equal(t, "3.5", occ.Weight().String())

	assert.ErrorIs(t, reservation.Occupancy{}.Validate(), reservation.ErrInvalidOccupancy)
	assert.ErrorIs(t, reservation.Occupancy{Adults: 0, Children5To8: 2}.Validate(), reservation.ErrInvalidOccupancy)
	assert.ErrorIs(t, reservation.Occupancy{Adults: 1, Children5To8: -1}.Validate(), reservation.ErrInvalidOccupancy)
}

func TestNew_StartsPendingByDefault(t *testing.T) {
	r, err := reservation.New(createParams(t))
	require.NoError(t, err)

	assert.Equal(t, reservation.StatusPending, r.Status)
	events := r.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "reservation.requested", events[0].EventName())
}

func TestNew_ConfirmedRecordsBothEvents(t *testing.T) {
	params := createParams(t)
	params.Confirmed = true

	r, err := reservation.New(params)
	require.NoError(t, err)

	assert.Equal(t, reservation.StatusConfirmed, r.Status)
	events := r.PendingEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "reservation.confirmed", events[1].EventName())
}

func TestNew_Rejections(t *testing.T) {
	params := createParams(t)
	params.GuestID = ""
	_, err := reservation.New(params)
	assert.ErrorIs(t, err, reservation.ErrGuestID)

	params = createParams(t)
	params.Occupancy = reservation.Occupancy{}
	_, err = reservation.New(params)
	assert.ErrorIs(t, err, reservation.ErrInvalidOccupancy)

	params = createParams(t)
	params.Range = daterange.DateRange{}
	_, err = reservation.New(params)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestConfirm_OnlyFromPending(t *testing.T) {
	r, err := reservation.New(createParams(t))
	require.NoError(t, err)
	now := day(2024, time.June, 2)

	require.NoError(t, r.Confirm(now))
	assert.Equal(t, reservation.StatusConfirmed, r.Status)

	assert.ErrorIs(t, r.Confirm(now), reservation.ErrInvalidState)
}

func TestCancel(t *testing.T) {
	r, err := reservation.New(createParams(t))
	require.NoError(t, err)
	now := day(2024, time.June, 2)

	require.NoError(t, r.Cancel("guest request", now))
	assert.Equal(t, reservation.StatusCancelled, r.Status)

	// Cancelled is terminal.
	assert.ErrorIs(t, r.Cancel("again", now), reservation.ErrInvalidState)
	assert.ErrorIs(t, r.Confirm(now), reservation.ErrInvalidState)
}

func TestCancel_FromConfirmed(t *testing.T) {
	params := createParams(t)
	params.Confirmed = true
	r, err := reservation.New(params)
	require.NoError(t, err)

	require.NoError(t, r.Cancel("overbooked", day(2024, time.June, 2)))
	assert.Equal(t, reservation.StatusCancelled, r.Status)
}
