package memory

import (
	"context"
	"sync"
	"time"

	domainoffering "staybook/internal/domain/offering"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

// ReservationStore is a mutex-guarded in-memory reservation store used by the
// demo wiring and the engine tests.
type ReservationStore struct {
	mu    sync.RWMutex
	items map[domainreservation.ReservationID]*domainreservation.Reservation

	// FailWith, when set, makes every query fail; tests use it to exercise
	// the store-unavailable path.
	FailWith error
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{items: make(map[domainreservation.ReservationID]*domainreservation.Reservation)}
}

func (s *ReservationStore) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	r, ok := s.items[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	return r, nil
}

func (s *ReservationStore) Create(ctx context.Context, r *domainreservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.items[r.ID] = r
	return nil
}

// CreateIfAvailable re-runs the per-night capacity count and inserts under
// one lock, so two concurrent confirmed requests cannot both slip through.
func (s *ReservationStore) CreateIfAvailable(ctx context.Context, r *domainreservation.Reservation, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	for _, day := range r.Range.Days() {
		count := 0
		for _, existing := range s.items {
			if existing.OfferingID != r.OfferingID || existing.Status != domainreservation.StatusConfirmed {
				continue
			}
			if existing.Range.ContainsDate(day) {
				count++
			}
		}
		if count >= capacity {
			return domainreservation.ErrCapacityExceeded
		}
	}
	s.items[r.ID] = r
	return nil
}

func (s *ReservationStore) Save(ctx context.Context, r *domainreservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.items[r.ID]; !ok {
		return domainreservation.ErrNotFound
	}
	s.items[r.ID] = r
	return nil
}

func (s *ReservationStore) Delete(ctx context.Context, id domainreservation.ReservationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.items[id]; !ok {
		return domainreservation.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *ReservationStore) ListOverlapping(ctx context.Context, offeringID domainoffering.OfferingID, dr daterange.DateRange, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	var out []*domainreservation.Reservation
	for _, r := range s.items {
		if r.OfferingID != offeringID || r.Status != status {
			continue
		}
		if r.Range.Overlaps(dr) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ReservationStore) ListFrom(ctx context.Context, offeringID domainoffering.OfferingID, from time.Time, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	from = daterange.Day(from)
	var out []*domainreservation.Reservation
	for _, r := range s.items {
		if r.OfferingID != offeringID || r.Status != status {
			continue
		}
		if r.Range.CheckOut.After(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

var (
	_ domainreservation.Store        = (*ReservationStore)(nil)
	_ domainreservation.GuardedStore = (*ReservationStore)(nil)
)
