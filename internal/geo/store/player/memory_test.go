package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
)

type PlayerStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *PlayerStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestPlayerStoreSuite(t *testing.T) {
	suite.Run(t, new(PlayerStoreSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *PlayerStoreSuite) newPlayer(alias string, city id.CityID) *models.Player {
	p := &models.Player{
		Alias:           ptr(alias),
		RegisteredAt:    ptr(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)),
		IsAdministrator: ptr(false),
	}
	if city != 0 {
		p.CityID = &city
	}
	s.Require().NoError(s.store.Create(s.ctx, p))
	return p
}

func (s *PlayerStoreSuite) TestCreateAndFind() {
	p := s.newPlayer("neo", 4)
	s.Equal(id.PlayerID(1), p.ID)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("neo", *found.Alias)
	s.Equal(id.CityID(4), found.OwnerID())

	_, err = s.store.FindByID(s.ctx, 404)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PlayerStoreSuite) TestUpdate() {
	p := s.newPlayer("trinity", 1)
	p.IsAdministrator = ptr(true)
	p.CityID = nil
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByIDForUpdate(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(*found.IsAdministrator)
	s.Nil(found.CityID)

	s.ErrorIs(s.store.Update(s.ctx, &models.Player{ID: 12}), sentinel.ErrNotFound)
}

func (s *PlayerStoreSuite) TestListByCityAndDetach() {
	a := s.newPlayer("a", 1)
	s.newPlayer("b", 2)
	c := s.newPlayer("c", 1)

	players, err := s.store.ListByCity(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(a.ID, players[0].ID)
	s.Equal(c.ID, players[1].ID)

	touched, err := s.store.DetachCity(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]id.PlayerID{a.ID, c.ID}, touched)

	players, err = s.store.ListByCity(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(players)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *PlayerStoreSuite) TestDelete() {
	p := s.newPlayer("morpheus", 0)
	s.Require().NoError(s.store.Delete(s.ctx, p.ID))
	_, err := s.store.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
