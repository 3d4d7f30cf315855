//go:build integration

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"projet/internal/geo/models"
	"projet/internal/geo/service"
	"projet/internal/platform/logger"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/testutil/containers"
)

type StoreTxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	tx       *postgresStoreTx
	regions  *service.RegionService
	cities   *service.CityService
}

func TestStoreTxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreTxSuite))
}

func (s *StoreTxSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.tx = newPostgresStoreTx(s.postgres.DB, 0)
	s.regions = service.NewRegionService(s.tx, service.WithLogger(logger.Nop()))
	s.cities = service.NewCityService(s.tx, service.WithLogger(logger.Nop()))
}

func (s *StoreTxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "player", "city", "region"))
}

func ptr[T any](v T) *T { return &v }

func (s *StoreTxSuite) TestFailedUnitOfWorkRollsBack() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.tx.RunInTx(ctx, func(st service.Stores) error {
		if err := st.Regions.Create(ctx, &models.Region{Name: ptr("Rolled back")}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	all, err := s.regions.FindAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StoreTxSuite) TestDeleteDetachesInOneTransaction() {
	ctx := context.Background()
	region, err := s.regions.Create(ctx, &models.Region{Name: ptr("Bourgogne")})
	s.Require().NoError(err)
	city, err := s.cities.Create(ctx, &models.City{Name: ptr("Dijon"), RegionID: &region.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.regions.Delete(ctx, region.ID))

	found, err := s.cities.FindOne(ctx, city.ID)
	s.Require().NoError(err)
	s.Nil(found.RegionID)
}

func (s *StoreTxSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.tx.RunInTx(ctx, func(service.Stores) error { return nil })
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
