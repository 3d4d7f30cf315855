package handler

import (
	"time"

	"projet/internal/geo/models"
)

// Embedded records never carry the back-reference to the record embedding
// them. Player credentials are write-only and never rendered.

type RegionSummary struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type CitySummary struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name"`
	PostalCode      *string `json:"postalCode"`
	PopulationCount *int32  `json:"populationCount"`
}

type PlayerSummary struct {
	ID              int64      `json:"id"`
	Alias           *string    `json:"alias"`
	RegisteredAt    *time.Time `json:"registeredAt"`
	IsAdministrator *bool      `json:"isAdministrator"`
}

type RegionResponse struct {
	ID     int64         `json:"id"`
	Name   *string       `json:"name"`
	Cities []CitySummary `json:"cities"`
}

type CityResponse struct {
	ID              int64           `json:"id"`
	Name            *string         `json:"name"`
	PostalCode      *string         `json:"postalCode"`
	PopulationCount *int32          `json:"populationCount"`
	Region          *RegionSummary  `json:"region"`
	Players         []PlayerSummary `json:"players"`
}

type PlayerResponse struct {
	ID              int64        `json:"id"`
	Alias           *string      `json:"alias"`
	RegisteredAt    *time.Time   `json:"registeredAt"`
	IsAdministrator *bool        `json:"isAdministrator"`
	City            *CitySummary `json:"city"`
}

func citySummary(c *models.City) *CitySummary {
	if c == nil {
		return nil
	}
	return &CitySummary{
		ID:              int64(c.ID),
		Name:            c.Name,
		PostalCode:      c.PostalCode,
		PopulationCount: c.PopulationCount,
	}
}

func toRegionResponse(r *models.Region) RegionResponse {
	resp := RegionResponse{ID: int64(r.ID), Name: r.Name, Cities: make([]CitySummary, 0, len(r.Cities))}
	for _, c := range r.Cities {
		resp.Cities = append(resp.Cities, *citySummary(c))
	}
	return resp
}

func toCityResponse(c *models.City) CityResponse {
	resp := CityResponse{
		ID:              int64(c.ID),
		Name:            c.Name,
		PostalCode:      c.PostalCode,
		PopulationCount: c.PopulationCount,
		Players:         make([]PlayerSummary, 0, len(c.Players)),
	}
	if c.Region != nil {
		resp.Region = &RegionSummary{ID: int64(c.Region.ID), Name: c.Region.Name}
	}
	for _, p := range c.Players {
		resp.Players = append(resp.Players, PlayerSummary{
			ID:              int64(p.ID),
			Alias:           p.Alias,
			RegisteredAt:    p.RegisteredAt,
			IsAdministrator: p.IsAdministrator,
		})
	}
	return resp
}

func toPlayerResponse(p *models.Player) PlayerResponse {
	return PlayerResponse{
		ID:              int64(p.ID),
		Alias:           p.Alias,
		RegisteredAt:    p.RegisteredAt,
		IsAdministrator: p.IsAdministrator,
		City:            citySummary(p.City),
	}
}

func mapAll[M any, R any](records []*M, conv func(*M) R) []R {
	out := make([]R, 0, len(records))
	for _, rec := range records {
		out = append(out, conv(rec))
	}
	return out
}
