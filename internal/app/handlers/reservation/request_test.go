package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservationapp "staybook/internal/app/handlers/reservation"
	domainavailability "staybook/internal/domain/availability"
	domainoffering "staybook/internal/domain/offering"
	domainpricing "staybook/internal/domain/pricing"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var fixedToday = day(2024, time.June, 1)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

type fixture struct {
	offerings *memory.OfferingRepository
	store     *memory.ReservationStore
	publisher *capturingPublisher
	request   *reservationapp.RequestHandler
	status    *reservationapp.UpdateStatusHandler
	remove    *reservationapp.DeleteHandler
}

func newFixture(t *testing.T, capacity int) fixture {
	t.Helper()
	offerings := memory.NewOfferingRepository()
	store := memory.NewReservationStore()
	publisher := &capturingPublisher{}
	checker := domainavailability.NewChecker(store)
	engine := domainpricing.NewEngine()
	now := func() time.Time { return fixedToday }

	off, err := domainoffering.New(domainoffering.CreateParams{
		ID:        "villa-1",
		Name:      "Riverside Villa",
		Kind:      domainoffering.KindProperty,
		Capacity:  capacity,
		Rates:     domainoffering.RateTable{Flat: money.Must(1000, "INR")},
		CreatedAt: day(2024, time.January, 1),
	})
	require.NoError(t, err)
	require.NoError(t, offerings.Save(context.Background(), off))

	return fixture{
		offerings: offerings,
		store:     store,
		publisher: publisher,
		request: &reservationapp.RequestHandler{
			Offerings: offerings,
			Store:     store,
			Checker:   checker,
			Engine:    engine,
			Publisher: publisher,
			Now:       now,
		},
		status: &reservationapp.UpdateStatusHandler{
			Offerings: offerings,
			Store:     store,
			Checker:   checker,
			Publisher: publisher,
			Now:       now,
		},
		remove: &reservationapp.DeleteHandler{Store: store},
	}
}

func requestCmd(id string) reservationapp.RequestCommand {
	return reservationapp.RequestCommand{
		CommandID:  id,
		OfferingID: "villa-1",
		GuestID:    "guest-1",
		CheckIn:    day(2024, time.July, 1),
		CheckOut:   day(2024, time.July, 3),
		Adults:     1,
		Tier:       25,
	}
}

func TestRequest_PersistsQuotedAmounts(t *testing.T) {
	f := newFixture(t, 1)

	result, err := f.request.Handle(context.Background(), requestCmd("res-1"))
	require.NoError(t, err)

	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, int64(2000), result.Total)
	assert.Equal(t, int64(500), result.TokenPaid)

	stored, err := f.store.ByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), stored.Total.Amount)
	assert.Equal(t, int64(500), stored.TokenPaid.Amount)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "reservation.requested", f.publisher.published[0].EventName())
}

func TestRequest_ConfirmedUsesGuardedInsert(t *testing.T) {
	f := newFixture(t, 1)

	cmd := requestCmd("res-1")
	cmd.Confirmed = true
	result, err := f.request.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Status)

	// Same nights again: the first confirmed stay fills capacity 1.
	cmd = requestCmd("res-2")
	cmd.Confirmed = true
	_, err = f.request.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, reservationapp.ErrUnavailable)
}

func TestRequest_PendingDoesNotBlockOthers(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.request.Handle(context.Background(), requestCmd("res-1"))
	require.NoError(t, err)

	_, err = f.request.Handle(context.Background(), requestCmd("res-2"))
	assert.NoError(t, err, "pending reservations never count against capacity")
}

func TestRequest_InvalidInputs(t *testing.T) {
	f := newFixture(t, 1)

	cmd := requestCmd("res-1")
	cmd.CheckOut = cmd.CheckIn
	_, err := f.request.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	cmd = requestCmd("res-2")
	cmd.Adults = 0
	_, err = f.request.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainreservation.ErrInvalidOccupancy)

	cmd = requestCmd("res-3")
	cmd.OfferingID = "ghost"
	_, err = f.request.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainoffering.ErrNotFound)
}

func TestRequest_StoreFailureFailsClosed(t *testing.T) {
	f := newFixture(t, 1)
	f.store.FailWith = assert.AnError

	_, err := f.request.Handle(context.Background(), requestCmd("res-1"))
	assert.ErrorIs(t, err, domainavailability.ErrStoreUnavailable)
}

func TestUpdateStatus_ConfirmRechecksCapacity(t *testing.T) {
	f := newFixture(t, 1)

	// Two pending requests for the same nights both go through.
	_, err := f.request.Handle(context.Background(), requestCmd("res-1"))
	require.NoError(t, err)
	_, err = f.request.Handle(context.Background(), requestCmd("res-2"))
	require.NoError(t, err)

	// First confirm wins, second finds the nights taken.
	result, err := f.status.Handle(context.Background(), reservationapp.UpdateStatusCommand{
		ReservationID: "res-1",
		Status:        "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Status)

	_, err = f.status.Handle(context.Background(), reservationapp.UpdateStatusCommand{
		ReservationID: "res-2",
		Status:        "confirmed",
	})
	assert.ErrorIs(t, err, reservationapp.ErrUnavailable)
}

func TestUpdateStatus_CancelReleasesCapacity(t *testing.T) {
	f := newFixture(t, 1)

	cmd := requestCmd("res-1")
	cmd.Confirmed = true
	_, err := f.request.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.status.Handle(context.Background(), reservationapp.UpdateStatusCommand{
		ReservationID: "res-1",
		Status:        "cancelled",
		Reason:        "guest request",
	})
	require.NoError(t, err)

	cmd = requestCmd("res-2")
	cmd.Confirmed = true
	_, err = f.request.Handle(context.Background(), cmd)
	assert.NoError(t, err, "cancelled reservations do not block availability")
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.status.Handle(context.Background(), reservationapp.UpdateStatusCommand{
		ReservationID: "ghost",
		Status:        "confirmed",
	})
	assert.ErrorIs(t, err, domainreservation.ErrNotFound)

	_, err = f.status.Handle(context.Background(), reservationapp.UpdateStatusCommand{
		ReservationID: "ghost",
		Status:        "checked_in",
	})
	assert.ErrorIs(t, err, reservationapp.ErrUnknownStatus)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.request.Handle(context.Background(), requestCmd("res-1"))
	require.NoError(t, err)

	result, err := f.remove.Handle(context.Background(), reservationapp.DeleteCommand{ReservationID: "res-1"})
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, err = f.store.ByID(context.Background(), "res-1")
	assert.ErrorIs(t, err, domainreservation.ErrNotFound)
}
