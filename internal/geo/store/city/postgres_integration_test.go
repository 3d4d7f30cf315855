//go:build integration

package city_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"projet/internal/geo/models"
	"projet/internal/geo/store/city"
	"projet/internal/geo/store/region"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
	"projet/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *city.PostgresStore
	regions  *region.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = city.NewPostgres(s.postgres.DB)
	s.regions = region.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "player", "city", "region")
	s.Require().NoError(err)
}

func ptr[T any](v T) *T { return &v }

func (s *PostgresStoreSuite) newRegion(name string) *models.Region {
	r := &models.Region{Name: ptr(name)}
	s.Require().NoError(s.regions.Create(context.Background(), r))
	return r
}

func (s *PostgresStoreSuite) TestRoundTripWithRegion() {
	ctx := context.Background()
	r := s.newRegion("Île-de-France")

	c := &models.City{Name: ptr("Paris"), PostalCode: ptr("75000"), PopulationCount: ptr(int32(2100000)), RegionID: &r.ID}
	s.Require().NoError(s.store.Create(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Paris", *found.Name)
	s.Equal(int32(2100000), *found.PopulationCount)
	s.Equal(r.ID, found.OwnerID())

	byRegion, err := s.store.ListByRegion(ctx, r.ID)
	s.Require().NoError(err)
	s.Len(byRegion, 1)
}

func (s *PostgresStoreSuite) TestUnknownRegionIsConflict() {
	missing := id.RegionID(999999)
	err := s.store.Create(context.Background(), &models.City{Name: ptr("Nowhere"), RegionID: &missing})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDetachRegion() {
	ctx := context.Background()
	r := s.newRegion("Bretagne")
	c1 := &models.City{Name: ptr("Rennes"), RegionID: &r.ID}
	c2 := &models.City{Name: ptr("Brest"), RegionID: &r.ID}
	s.Require().NoError(s.store.Create(ctx, c1))
	s.Require().NoError(s.store.Create(ctx, c2))

	touched, err := s.store.DetachRegion(ctx, r.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]id.CityID{c1.ID, c2.ID}, touched)

	found, err := s.store.FindByID(ctx, c1.ID)
	s.Require().NoError(err)
	s.Nil(found.RegionID)
}

func (s *PostgresStoreSuite) TestRegionDeleteSetsNull() {
	ctx := context.Background()
	r := s.newRegion("Corse")
	c := &models.City{Name: ptr("Ajaccio"), RegionID: &r.ID}
	s.Require().NoError(s.store.Create(ctx, c))

	s.Require().NoError(s.regions.Delete(ctx, r.ID))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Nil(found.RegionID)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	c := &models.City{Name: ptr("Nice")}
	s.Require().NoError(s.store.Create(ctx, c))

	c.PopulationCount = ptr(int32(340000))
	s.Require().NoError(s.store.Update(ctx, c))

	found, err := s.store.FindByIDForUpdate(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int32(340000), *found.PopulationCount)

	s.Require().NoError(s.store.Delete(ctx, c.ID))
	s.ErrorIs(s.store.Update(ctx, c), sentinel.ErrNotFound)
}
