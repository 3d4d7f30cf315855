package models

import (
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
)

// City belongs to at most one region and holds players.
//
// RegionID is the owning side of the region link and the only one persisted.
// Region is a read-only snapshot of the owner filled on reads; it never
// carries the owner's child set.
type City struct {
	ID              id.CityID    `json:"id"`
	Name            *string      `json:"name,omitempty"`
	PostalCode      *string      `json:"postalCode,omitempty"`
	PopulationCount *int32       `json:"populationCount,omitempty"`
	RegionID        *id.RegionID `json:"regionId,omitempty"`
	Region          *Region      `json:"region,omitempty"`
	Players         []*Player    `json:"players,omitempty"`

	// owner is the loaded region whose Cities lists this city.
	owner *Region
}

// LoadedOwner returns the in-memory region that lists the city, if any.
func (c *City) LoadedOwner() *Region {
	if c == nil {
		return nil
	}
	return c.owner
}

// SetLoadedOwner records the in-memory region that lists the city.
func (c *City) SetLoadedOwner(r *Region) {
	if c != nil {
		c.owner = r
	}
}

// Validate checks scalar constraints.
func (c *City) Validate() error {
	if c.PopulationCount != nil && *c.PopulationCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "populationCount must not be negative")
	}
	return nil
}

// Equal reports identity equality. Records without an assigned id are only
// equal to themselves.
func (c *City) Equal(other *City) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil || c.ID.IsNil() {
		return false
	}
	return c.ID == other.ID
}

// OwnerID returns the region id the city points at, or zero.
func (c *City) OwnerID() id.RegionID {
	if c == nil || c.RegionID == nil {
		return 0
	}
	return *c.RegionID
}

// Clone returns a deep copy. The region FK is copied by value.
func (c *City) Clone() *City {
	if c == nil {
		return nil
	}
	out := c.Scalars()
	out.Region = c.Region.Scalars()
	if c.Players != nil {
		out.Players = make([]*Player, 0, len(c.Players))
		for _, p := range c.Players {
			out.Players = append(out.Players, p.Clone())
		}
	}
	return out
}

// Scalars returns a copy carrying the fields and the region FK only.
func (c *City) Scalars() *City {
	if c == nil {
		return nil
	}
	return &City{
		ID:              c.ID,
		Name:            clonePtr(c.Name),
		PostalCode:      clonePtr(c.PostalCode),
		PopulationCount: clonePtr(c.PopulationCount),
		RegionID:        clonePtr(c.RegionID),
	}
}
