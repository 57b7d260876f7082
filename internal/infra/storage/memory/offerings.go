package memory

import (
	"context"
	"sort"
	"sync"

	domainoffering "staybook/internal/domain/offering"
)

// OfferingRepository is an in-memory catalog used for demos and tests.
type OfferingRepository struct {
	mu    sync.RWMutex
	items map[domainoffering.OfferingID]*domainoffering.Offering
}

func NewOfferingRepository() *OfferingRepository {
	return &OfferingRepository{items: make(map[domainoffering.OfferingID]*domainoffering.Offering)}
}

func (r *OfferingRepository) ByID(ctx context.Context, id domainoffering.OfferingID) (*domainoffering.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	off, ok := r.items[id]
	if !ok {
		return nil, domainoffering.ErrNotFound
	}
	return off, nil
}

func (r *OfferingRepository) Save(ctx context.Context, off *domainoffering.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[off.ID] = off
	return nil
}

func (r *OfferingRepository) List(ctx context.Context) ([]*domainoffering.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainoffering.Offering, 0, len(r.items))
	for _, off := range r.items {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ domainoffering.Repository = (*OfferingRepository)(nil)
