// Package city persists cities together with their region_id link. Player
// sets live in the player store.
package city

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
)

// InMemory is a map-backed city store.
type InMemory struct {
	mu     sync.RWMutex
	cities map[id.CityID]*models.City
	lastID id.CityID
}

// NewInMemory constructs an empty city store.
func NewInMemory() *InMemory {
	return &InMemory{cities: make(map[id.CityID]*models.City)}
}

// Create assigns the next id to city and stores a copy of its fields and FK.
func (s *InMemory) Create(_ context.Context, city *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	city.ID = s.lastID
	s.cities[city.ID] = city.Scalars()
	return nil
}

func (s *InMemory) Update(_ context.Context, city *models.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cities[city.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.cities[city.ID] = city.Scalars()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cityID id.CityID) (*models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cities[cityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Scalars(), nil
}

// FindByIDForUpdate is FindByID; the unit of work already serialises writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, cityID id.CityID) (*models.City, error) {
	return s.FindByID(ctx, cityID)
}

// ListAll returns every city ordered by id.
func (s *InMemory) ListAll(_ context.Context) ([]*models.City, error) {
	return s.list(func(*models.City) bool { return true }), nil
}

// ListByRegion returns the cities whose region_id is regionID, ordered by id.
func (s *InMemory) ListByRegion(_ context.Context, regionID id.RegionID) ([]*models.City, error) {
	return s.list(func(c *models.City) bool { return c.OwnerID() == regionID }), nil
}

func (s *InMemory) list(keep func(*models.City) bool) []*models.City {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.City, 0, len(s.cities))
	for _, c := range s.cities {
		if keep(c) {
			out = append(out, c.Scalars())
		}
	}
	slices.SortFunc(out, func(a, b *models.City) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// DetachRegion clears region_id on every city of regionID and returns the
// ids it touched.
func (s *InMemory) DetachRegion(_ context.Context, regionID id.RegionID) ([]id.CityID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var touched []id.CityID
	for _, c := range s.cities {
		if c.OwnerID() == regionID {
			c.RegionID = nil
			touched = append(touched, c.ID)
		}
	}
	slices.Sort(touched)
	return touched, nil
}

// Delete removes the city. Unknown ids are ignored.
func (s *InMemory) Delete(_ context.Context, cityID id.CityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cities, cityID)
	return nil
}
