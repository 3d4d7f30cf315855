// Package player persists players together with their city_id link.
package player

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
)

// InMemory is a map-backed player store.
type InMemory struct {
	mu      sync.RWMutex
	players map[id.PlayerID]*models.Player
	lastID  id.PlayerID
}

// NewInMemory constructs an empty player store.
func NewInMemory() *InMemory {
	return &InMemory{players: make(map[id.PlayerID]*models.Player)}
}

// Create assigns the next id to player and stores a copy of its fields and FK.
func (s *InMemory) Create(_ context.Context, player *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	player.ID = s.lastID
	s.players[player.ID] = player.Scalars()
	return nil
}

func (s *InMemory) Update(_ context.Context, player *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.players[player.ID] = player.Scalars()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, playerID id.PlayerID) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Scalars(), nil
}

// FindByIDForUpdate is FindByID; the unit of work already serialises writers.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, playerID id.PlayerID) (*models.Player, error) {
	return s.FindByID(ctx, playerID)
}

// ListAll returns every player ordered by id.
func (s *InMemory) ListAll(_ context.Context) ([]*models.Player, error) {
	return s.list(func(*models.Player) bool { return true }), nil
}

// ListByCity returns the players whose city_id is cityID, ordered by id.
func (s *InMemory) ListByCity(_ context.Context, cityID id.CityID) ([]*models.Player, error) {
	return s.list(func(p *models.Player) bool { return p.OwnerID() == cityID }), nil
}

func (s *InMemory) list(keep func(*models.Player) bool) []*models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Player, 0, len(s.players))
	for _, p := range s.players {
		if keep(p) {
			out = append(out, p.Scalars())
		}
	}
	slices.SortFunc(out, func(a, b *models.Player) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// DetachCity clears city_id on every player of cityID and returns the ids it
// touched.
func (s *InMemory) DetachCity(_ context.Context, cityID id.CityID) ([]id.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var touched []id.PlayerID
	for _, p := range s.players {
		if p.OwnerID() == cityID {
			p.CityID = nil
			touched = append(touched, p.ID)
		}
	}
	slices.Sort(touched)
	return touched, nil
}

// Delete removes the player. Unknown ids are ignored.
func (s *InMemory) Delete(_ context.Context, playerID id.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerID)
	return nil
}
