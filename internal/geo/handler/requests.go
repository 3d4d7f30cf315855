package handler

import (
	"time"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/optional"
)

// Ref points at an owner record, e.g. {"region": {"id": 3}}.
type Ref struct {
	ID *int64 `json:"id"`
}

func (r *Ref) validate(field string) error {
	if r != nil && (r.ID == nil || *r.ID <= 0) {
		return dErrors.New(dErrors.CodeBadRequest, field+".id must be a positive number")
	}
	return nil
}

func refID[T ~int64](r *Ref) *T {
	if r == nil || r.ID == nil {
		return nil
	}
	v := T(*r.ID)
	return &v
}

// refValue converts a presence-tagged reference into a presence-tagged id.
func refValue[T ~int64](v optional.Value[Ref]) optional.Value[T] {
	if !v.Present() {
		return optional.Value[T]{}
	}
	ref, ok := v.Get()
	if !ok || ref.ID == nil {
		return optional.Null[T]()
	}
	return optional.Of(T(*ref.ID))
}

func validateRefValue(v optional.Value[Ref], field string) error {
	if ref, ok := v.Get(); ok {
		return ref.validate(field)
	}
	return nil
}

func bodyID(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// RegionRequest is the body of POST and PUT /api/regions.
type RegionRequest struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

func (r *RegionRequest) toModel() *models.Region {
	return &models.Region{ID: id.RegionID(bodyID(r.ID)), Name: r.Name}
}

// RegionPatchRequest is the body of PATCH /api/regions/{id}.
type RegionPatchRequest struct {
	ID   *int64                 `json:"id"`
	Name optional.Value[string] `json:"name"`
}

func (r *RegionPatchRequest) toPatch() models.RegionPatch {
	return models.RegionPatch{ID: id.RegionID(bodyID(r.ID)), Name: r.Name}
}

// CityRequest is the body of POST and PUT /api/cities.
type CityRequest struct {
	ID              *int64  `json:"id"`
	Name            *string `json:"name"`
	PostalCode      *string `json:"postalCode"`
	PopulationCount *int32  `json:"populationCount"`
	Region          *Ref    `json:"region"`
}

func (r *CityRequest) Validate() error {
	if r.PopulationCount != nil && *r.PopulationCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "populationCount must not be negative")
	}
	return r.Region.validate("region")
}

func (r *CityRequest) toModel() *models.City {
	return &models.City{
		ID:              id.CityID(bodyID(r.ID)),
		Name:            r.Name,
		PostalCode:      r.PostalCode,
		PopulationCount: r.PopulationCount,
		RegionID:        refID[id.RegionID](r.Region),
	}
}

// CityPatchRequest is the body of PATCH /api/cities/{id}. A present region
// moves the city; "region": null detaches it.
type CityPatchRequest struct {
	ID              *int64                 `json:"id"`
	Name            optional.Value[string] `json:"name"`
	PostalCode      optional.Value[string] `json:"postalCode"`
	PopulationCount optional.Value[int32]  `json:"populationCount"`
	Region          optional.Value[Ref]    `json:"region"`
}

func (r *CityPatchRequest) Validate() error {
	if n, ok := r.PopulationCount.Get(); ok && n < 0 {
		return dErrors.New(dErrors.CodeValidation, "populationCount must not be negative")
	}
	return validateRefValue(r.Region, "region")
}

func (r *CityPatchRequest) toPatch() models.CityPatch {
	return models.CityPatch{
		ID:              id.CityID(bodyID(r.ID)),
		Name:            r.Name,
		PostalCode:      r.PostalCode,
		PopulationCount: r.PopulationCount,
		Region:          refValue[id.RegionID](r.Region),
	}
}

// PlayerRequest is the body of POST and PUT /api/players.
type PlayerRequest struct {
	ID               *int64     `json:"id"`
	Alias            *string    `json:"alias"`
	CredentialSecret *string    `json:"credentialSecret"`
	RegisteredAt     *time.Time `json:"registeredAt"`
	IsAdministrator  *bool      `json:"isAdministrator"`
	City             *Ref       `json:"city"`
}

func (r *PlayerRequest) Validate() error {
	if r.CredentialSecret != nil && *r.CredentialSecret == "" {
		return dErrors.New(dErrors.CodeValidation, "credentialSecret must not be empty")
	}
	return r.City.validate("city")
}

func (r *PlayerRequest) toModel() *models.Player {
	return &models.Player{
		ID:               id.PlayerID(bodyID(r.ID)),
		Alias:            r.Alias,
		CredentialSecret: r.CredentialSecret,
		RegisteredAt:     r.RegisteredAt,
		IsAdministrator:  r.IsAdministrator,
		CityID:           refID[id.CityID](r.City),
	}
}

// PlayerPatchRequest is the body of PATCH /api/players/{id}. A present city
// moves the player; "city": null detaches it.
type PlayerPatchRequest struct {
	ID               *int64                    `json:"id"`
	Alias            optional.Value[string]    `json:"alias"`
	CredentialSecret optional.Value[string]    `json:"credentialSecret"`
	RegisteredAt     optional.Value[time.Time] `json:"registeredAt"`
	IsAdministrator  optional.Value[bool]      `json:"isAdministrator"`
	City             optional.Value[Ref]       `json:"city"`
}

func (r *PlayerPatchRequest) Validate() error {
	if s, ok := r.CredentialSecret.Get(); ok && s == "" {
		return dErrors.New(dErrors.CodeValidation, "credentialSecret must not be empty")
	}
	return validateRefValue(r.City, "city")
}

func (r *PlayerPatchRequest) toPatch() models.PlayerPatch {
	return models.PlayerPatch{
		ID:               id.PlayerID(bodyID(r.ID)),
		Alias:            r.Alias,
		CredentialSecret: r.CredentialSecret,
		RegisteredAt:     r.RegisteredAt,
		IsAdministrator:  r.IsAdministrator,
		City:             refValue[id.CityID](r.City),
	}
}
