// Package models holds the registry records and the patch types that merge
// into them.
package models

import (
	id "projet/pkg/domain"
)

// Region groups cities. Cities is the loaded child set; the owning side of
// the link is City.RegionID.
type Region struct {
	ID     id.RegionID `json:"id"`
	Name   *string     `json:"name,omitempty"`
	Cities []*City     `json:"cities,omitempty"`
}

// Equal reports identity equality. Records without an assigned id are only
// equal to themselves.
func (r *Region) Equal(other *Region) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil || r.ID.IsNil() {
		return false
	}
	return r.ID == other.ID
}

// Clone returns a deep copy, child set included.
func (r *Region) Clone() *Region {
	if r == nil {
		return nil
	}
	out := &Region{ID: r.ID, Name: clonePtr(r.Name)}
	if r.Cities != nil {
		out.Cities = make([]*City, 0, len(r.Cities))
		for _, c := range r.Cities {
			out.Cities = append(out.Cities, c.Clone())
		}
	}
	return out
}

// Scalars returns a copy without the child set.
func (r *Region) Scalars() *Region {
	if r == nil {
		return nil
	}
	return &Region{ID: r.ID, Name: clonePtr(r.Name)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
