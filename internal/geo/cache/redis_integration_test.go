//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"projet/internal/geo/cache"
	"projet/internal/geo/models"
	id "projet/pkg/domain"
	"projet/pkg/testutil/containers"
)

type RedisIntegrationSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIntegrationSuite))
}

func (s *RedisIntegrationSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, cache.WithTTL(2*time.Second))
}

func (s *RedisIntegrationSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisIntegrationSuite) TestRoundTripAndExpiry() {
	ctx := context.Background()
	name := "Hauts-de-France"
	key := cache.RegionKey(3)

	stored, err := s.cache.SetIfVersion(ctx, key, 0, &models.Region{ID: 3, Name: &name})
	s.Require().NoError(err)
	s.Require().True(stored)

	var got models.Region
	hit, err := s.cache.Get(ctx, key, &got)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal(name, *got.Name)

	ttl, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, 2*time.Second)
}

func (s *RedisIntegrationSuite) TestInvalidateSeveralKeys() {
	ctx := context.Background()
	for _, cityID := range []int64{1, 2} {
		stored, err := s.cache.SetIfVersion(ctx, cache.CityKey(id.CityID(cityID)), 0, &models.City{ID: id.CityID(cityID)})
		s.Require().NoError(err)
		s.Require().True(stored)
	}

	s.Require().NoError(s.cache.Invalidate(ctx, cache.CityKey(1), cache.CityKey(2), cache.CityKey(3)))

	n, err := s.redis.Client.Exists(ctx, cache.CityKey(1), cache.CityKey(2)).Result()
	s.Require().NoError(err)
	s.Zero(n)

	version, err := s.cache.Version(ctx, cache.CityKey(3))
	s.Require().NoError(err)
	s.Equal(uint64(1), version)
	stored, err := s.cache.SetIfVersion(ctx, cache.CityKey(3), 0, &models.City{ID: 3})
	s.Require().NoError(err)
	s.False(stored)
}
