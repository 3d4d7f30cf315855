// Package region persists regions. Child sets are never stored here; the
// city store owns the link through its region_id column.
package region

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
)

// InMemory is a map-backed region store.
type InMemory struct {
	mu      sync.RWMutex
	regions map[id.RegionID]*models.Region
	lastID  id.RegionID
}

// NewInMemory constructs an empty region store.
func NewInMemory() *InMemory {
	return &InMemory{regions: make(map[id.RegionID]*models.Region)}
}

// Create assigns the next id to region and stores a copy of its fields.
func (s *InMemory) Create(_ context.Context, region *models.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	region.ID = s.lastID
	s.regions[region.ID] = region.Scalars()
	return nil
}

func (s *InMemory) Update(_ context.Context, region *models.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regions[region.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.regions[region.ID] = region.Scalars()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, regionID id.RegionID) (*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[regionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Scalars(), nil
}

// FindByIDForUpdate is FindByID; the unit of work already serialises writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, regionID id.RegionID) (*models.Region, error) {
	return s.FindByID(ctx, regionID)
}

// ListAll returns every region ordered by id.
func (s *InMemory) ListAll(_ context.Context) ([]*models.Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Region, 0, len(s.regions))
	for _, r := range s.regions {
		out = append(out, r.Scalars())
	}
	slices.SortFunc(out, func(a, b *models.Region) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Delete removes the region. Unknown ids are ignored.
func (s *InMemory) Delete(_ context.Context, regionID id.RegionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, regionID)
	return nil
}
