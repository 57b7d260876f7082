package reservation

import (
	"context"
	"errors"
)

// ErrCapacityExceeded is returned by guarded creation when the insert would
// push some night past the offering's capacity.
var ErrCapacityExceeded = errors.New("reservation: capacity exceeded for requested nights")

// GuardedStore is implemented by stores that can re-check per-night capacity
// and insert in one atomic step, closing the check-then-write race the plain
// availability check leaves open.
type GuardedStore interface {
	CreateIfAvailable(ctx context.Context, r *Reservation, capacity int) error
}
