package models

import (
	"time"

	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/optional"
)

// RegionPatch is a merge-patch for a region. ID identifies the target and is
// checked against the path by the service.
type RegionPatch struct {
	ID   id.RegionID
	Name optional.Value[string]
}

// Merge applies the present fields onto a copy of existing. The child set is
// carried over untouched.
func (p RegionPatch) Merge(existing *Region) *Region {
	out := existing.Clone()
	out.Name = optional.Apply(existing.Name, p.Name)
	return out
}

// CityPatch is a merge-patch for a city. Region, when present, is applied by
// the service through the relations package, never by Merge.
type CityPatch struct {
	ID              id.CityID
	Name            optional.Value[string]
	PostalCode      optional.Value[string]
	PopulationCount optional.Value[int32]
	Region          optional.Value[id.RegionID]
}

// Merge applies the present scalar fields onto a copy of existing.
func (p CityPatch) Merge(existing *City) *City {
	out := existing.Clone()
	out.Name = optional.Apply(existing.Name, p.Name)
	out.PostalCode = optional.Apply(existing.PostalCode, p.PostalCode)
	out.PopulationCount = optional.Apply(existing.PopulationCount, p.PopulationCount)
	return out
}

// Validate checks the values carried by the patch.
func (p CityPatch) Validate() error {
	if n, ok := p.PopulationCount.Get(); ok && n < 0 {
		return dErrors.New(dErrors.CodeValidation, "populationCount must not be negative")
	}
	if r, ok := p.Region.Get(); ok && r <= 0 {
		return dErrors.New(dErrors.CodeValidation, "region id must be positive")
	}
	return nil
}

// PlayerPatch is a merge-patch for a player. City, when present, is applied by
// the service through the relations package, never by Merge.
type PlayerPatch struct {
	ID               id.PlayerID
	Alias            optional.Value[string]
	CredentialSecret optional.Value[string]
	RegisteredAt     optional.Value[time.Time]
	IsAdministrator  optional.Value[bool]
	City             optional.Value[id.CityID]
}

// Merge applies the present scalar fields onto a copy of existing.
func (p PlayerPatch) Merge(existing *Player) *Player {
	out := existing.Clone()
	out.Alias = optional.Apply(existing.Alias, p.Alias)
	out.CredentialSecret = optional.Apply(existing.CredentialSecret, p.CredentialSecret)
	out.RegisteredAt = optional.Apply(existing.RegisteredAt, p.RegisteredAt)
	out.IsAdministrator = optional.Apply(existing.IsAdministrator, p.IsAdministrator)
	return out
}

// Validate checks the values carried by the patch.
func (p PlayerPatch) Validate() error {
	if c, ok := p.City.Get(); ok && c <= 0 {
		return dErrors.New(dErrors.CodeValidation, "city id must be positive")
	}
	return nil
}
