package models

import (
	"time"

	id "projet/pkg/domain"
)

// Player belongs to at most one city. CredentialSecret holds a bcrypt hash
// once the record has gone through the service.
type Player struct {
	ID               id.PlayerID `json:"id"`
	Alias            *string     `json:"alias,omitempty"`
	CredentialSecret *string     `json:"credentialSecret,omitempty"`
	RegisteredAt     *time.Time  `json:"registeredAt,omitempty"`
	IsAdministrator  *bool       `json:"isAdministrator,omitempty"`
	CityID           *id.CityID  `json:"cityId,omitempty"`
	City             *City       `json:"city,omitempty"`

	// owner is the loaded city whose Players lists this player.
	owner *City
}

// LoadedOwner returns the in-memory city that lists the player, if any.
func (p *Player) LoadedOwner() *City {
	if p == nil {
		return nil
	}
	return p.owner
}

// SetLoadedOwner records the in-memory city that lists the player.
func (p *Player) SetLoadedOwner(c *City) {
	if p != nil {
		p.owner = c
	}
}

// Equal reports identity equality. Records without an assigned id are only
// equal to themselves.
func (p *Player) Equal(other *Player) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil || p.ID.IsNil() {
		return false
	}
	return p.ID == other.ID
}

// OwnerID returns the city id the player points at, or zero.
func (p *Player) OwnerID() id.CityID {
	if p == nil || p.CityID == nil {
		return 0
	}
	return *p.CityID
}

// Clone returns a deep copy. The city snapshot keeps its scalars only.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	out := p.Scalars()
	out.City = p.City.Scalars()
	return out
}

// Scalars returns a copy carrying the fields and the city FK only.
func (p *Player) Scalars() *Player {
	if p == nil {
		return nil
	}
	return &Player{
		ID:               p.ID,
		Alias:            clonePtr(p.Alias),
		CredentialSecret: clonePtr(p.CredentialSecret),
		RegisteredAt:     clonePtr(p.RegisteredAt),
		IsAdministrator:  clonePtr(p.IsAdministrator),
		CityID:           clonePtr(p.CityID),
	}
}
