package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"projet/internal/geo/cache"
	"projet/internal/geo/events"
	"projet/internal/geo/metrics"
	"projet/internal/geo/models"
	citystore "projet/internal/geo/store/city"
	playerstore "projet/internal/geo/store/player"
	regionstore "projet/internal/geo/store/region"
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/optional"
	"projet/pkg/secrets"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, string(ev.Entity)+"."+string(ev.Action))
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	mini      *miniredis.Miniredis
	client    *redis.Client
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	stores    Stores
	regions   *RegionService
	cities    *CityService
	players   *PlayerService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.mini = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.publisher = &recordingPublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.stores = Stores{
		Regions: regionstore.NewInMemory(),
		Cities:  citystore.NewInMemory(),
		Players: playerstore.NewInMemory(),
	}
	tx := NewInMemoryTx(s.stores, time.Second)
	opts := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithCache(cache.NewRedis(s.client)),
		WithPublisher(s.publisher),
		WithMetrics(s.metrics),
		WithSecretCost(bcrypt.MinCost),
	}
	s.regions = NewRegionService(tx, opts...)
	s.cities = NewCityService(tx, opts...)
	s.players = NewPlayerService(tx, opts...)
}

func (s *ServiceSuite) TearDownTest() {
	_ = s.client.Close()
}

func ptr[T any](v T) *T { return &v }

func (s *ServiceSuite) createRegion(name string) *models.Region {
	region, err := s.regions.Create(s.ctx, &models.Region{Name: ptr(name)})
	s.Require().NoError(err)
	return region
}

func (s *ServiceSuite) createCity(name string, regionID id.RegionID) *models.City {
	draft := &models.City{Name: ptr(name)}
	if !regionID.IsNil() {
		draft.RegionID = &regionID
	}
	city, err := s.cities.Create(s.ctx, draft)
	s.Require().NoError(err)
	return city
}

func (s *ServiceSuite) requireKey(err error, code dErrors.Code, key string) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "unexpected error %v", err)
	s.Equal(key, dErrors.KeyOf(err))
}

func (s *ServiceSuite) TestIDRules() {
	s.Run("create rejects a draft carrying an id", func() {
		_, err := s.regions.Create(s.ctx, &models.Region{ID: 9, Name: ptr("Occitanie")})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDExists)
	})

	s.Run("update requires a body id", func() {
		_, err := s.cities.Update(s.ctx, 1, &models.City{Name: ptr("Albi")})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNull)
	})

	s.Run("update rejects a body id different from the path", func() {
		_, err := s.players.Update(s.ctx, 1, &models.Player{ID: 2})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDInvalid)
	})

	s.Run("update of an unknown record is a bad request", func() {
		_, err := s.regions.Update(s.ctx, 404, &models.Region{ID: 404})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNotFound)
	})

	s.Run("patch applies the same id rules", func() {
		_, err := s.regions.PartialUpdate(s.ctx, 1, models.RegionPatch{})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNull)

		_, err = s.cities.PartialUpdate(s.ctx, 1, models.CityPatch{ID: 3})
		s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDInvalid)
	})

	s.Run("no event is emitted for rejected calls", func() {
		s.Empty(s.publisher.actions())
	})
}

func (s *ServiceSuite) TestRegionLifecycle() {
	region := s.createRegion("Bretagne")
	s.False(region.ID.IsNil())
	s.Equal("Bretagne", *region.Name)

	updated, err := s.regions.Update(s.ctx, region.ID, &models.Region{ID: region.ID, Name: ptr("Breizh")})
	s.Require().NoError(err)
	s.Equal("Breizh", *updated.Name)

	patched, err := s.regions.PartialUpdate(s.ctx, region.ID, models.RegionPatch{ID: region.ID})
	s.Require().NoError(err)
	s.Equal("Breizh", *patched.Name, "absent fields are retained")

	patched, err = s.regions.PartialUpdate(s.ctx, region.ID, models.RegionPatch{ID: region.ID, Name: optional.Null[string]()})
	s.Require().NoError(err)
	s.Nil(patched.Name, "null clears the field")

	all, err := s.regions.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	s.Require().NoError(s.regions.Delete(s.ctx, region.ID))
	found, err := s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.Nil(found)

	s.Equal([]string{"region.created", "region.updated", "region.updated", "region.updated", "region.deleted"}, s.publisher.actions())
	s.Equal(2.0, promtest.ToFloat64(s.metrics.MergePatches.WithLabelValues("region")))
	s.Equal(3.0, promtest.ToFloat64(s.metrics.Mutations.WithLabelValues("region", "updated")))
}

func (s *ServiceSuite) TestPartialUpdateOfUnknownRecord() {
	region, err := s.regions.PartialUpdate(s.ctx, 77, models.RegionPatch{ID: 77, Name: optional.Of("x")})
	s.NoError(err)
	s.Nil(region)

	city, err := s.cities.PartialUpdate(s.ctx, 77, models.CityPatch{ID: 77})
	s.NoError(err)
	s.Nil(city)

	player, err := s.players.PartialUpdate(s.ctx, 77, models.PlayerPatch{ID: 77})
	s.NoError(err)
	s.Nil(player)

	s.Empty(s.publisher.actions())
}

func (s *ServiceSuite) TestCityCreatedUnderRegion() {
	region := s.createRegion("Normandie")
	city := s.createCity("Caen", region.ID)

	s.Require().NotNil(city.Region)
	s.Equal(region.ID, city.Region.ID)
	s.Nil(city.Region.Cities)

	found, err := s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Cities, 1)
	s.Equal(city.ID, found.Cities[0].ID)
}

func (s *ServiceSuite) TestCityMovesBetweenRegions() {
	from := s.createRegion("Alsace")
	to := s.createRegion("Lorraine")
	city := s.createCity("Metz", from.ID)

	moved, err := s.cities.Update(s.ctx, city.ID, &models.City{ID: city.ID, Name: ptr("Metz"), RegionID: &to.ID})
	s.Require().NoError(err)
	s.Equal(to.ID, *moved.RegionID)

	oldRegion, err := s.regions.FindOne(s.ctx, from.ID)
	s.Require().NoError(err)
	s.Empty(oldRegion.Cities)

	newRegion, err := s.regions.FindOne(s.ctx, to.ID)
	s.Require().NoError(err)
	s.Require().Len(newRegion.Cities, 1)
	s.Equal(city.ID, newRegion.Cities[0].ID)
}

func (s *ServiceSuite) TestCityPatchAndRegionLink() {
	region := s.createRegion("Corse")
	city := s.createCity("Ajaccio", region.ID)

	patched, err := s.cities.PartialUpdate(s.ctx, city.ID, models.CityPatch{
		ID:              city.ID,
		PopulationCount: optional.Of[int32](70000),
	})
	s.Require().NoError(err)
	s.Equal("Ajaccio", *patched.Name)
	s.Equal(int32(70000), *patched.PopulationCount)
	s.Equal(region.ID, *patched.RegionID)

	detached, err := s.cities.PartialUpdate(s.ctx, city.ID, models.CityPatch{
		ID:     city.ID,
		Region: optional.Null[id.RegionID](),
	})
	s.Require().NoError(err)
	s.Nil(detached.RegionID)
	s.Nil(detached.Region)

	found, err := s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.Empty(found.Cities)

	_, err = s.cities.PartialUpdate(s.ctx, city.ID, models.CityPatch{
		ID:     city.ID,
		Region: optional.Of[id.RegionID](999),
	})
	s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNotFound)
}

func (s *ServiceSuite) TestDeleteDetachesChildren() {
	region := s.createRegion("Provence")
	city := s.createCity("Marseille", region.ID)
	player, err := s.players.Create(s.ctx, &models.Player{Alias: ptr("zizou"), CityID: &city.ID})
	s.Require().NoError(err)

	s.Require().NoError(s.regions.Delete(s.ctx, region.ID))
	orphan, err := s.cities.FindOne(s.ctx, city.ID)
	s.Require().NoError(err)
	s.Nil(orphan.RegionID)
	s.Require().Len(orphan.Players, 1)

	s.Require().NoError(s.cities.Delete(s.ctx, city.ID))
	alone, err := s.players.FindOne(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Nil(alone.CityID)
	s.Nil(alone.City)

	s.Run("deleting an unknown id succeeds without an event", func() {
		before := len(s.publisher.actions())
		s.NoError(s.regions.Delete(s.ctx, 12345))
		s.Len(s.publisher.actions(), before)
	})
}

func (s *ServiceSuite) TestCreateWithUnknownOwner() {
	_, err := s.cities.Create(s.ctx, &models.City{Name: ptr("Nowhere"), RegionID: ptr(id.RegionID(42))})
	s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNotFound)

	_, err = s.players.Create(s.ctx, &models.Player{Alias: ptr("ghost"), CityID: ptr(id.CityID(42))})
	s.requireKey(err, dErrors.CodeBadRequest, dErrors.KeyIDNotFound)
}

func (s *ServiceSuite) TestNegativePopulationRejected() {
	_, err := s.cities.Create(s.ctx, &models.City{PopulationCount: ptr[int32](-1)})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestPlayerMovesBetweenCities() {
	from := s.createCity("Lyon", 0)
	to := s.createCity("Nice", 0)
	player, err := s.players.Create(s.ctx, &models.Player{Alias: ptr("ninja"), CityID: &from.ID})
	s.Require().NoError(err)
	s.Equal(from.ID, player.City.ID)

	moved, err := s.players.PartialUpdate(s.ctx, player.ID, models.PlayerPatch{
		ID:   player.ID,
		City: optional.Of(to.ID),
	})
	s.Require().NoError(err)
	s.Equal(to.ID, *moved.CityID)
	s.Equal("ninja", *moved.Alias)

	oldCity, err := s.cities.FindOne(s.ctx, from.ID)
	s.Require().NoError(err)
	s.Empty(oldCity.Players)

	newCity, err := s.cities.FindOne(s.ctx, to.ID)
	s.Require().NoError(err)
	s.Require().Len(newCity.Players, 1)
	s.Equal(player.ID, newCity.Players[0].ID)
}

func (s *ServiceSuite) TestCredentialHashing() {
	player, err := s.players.Create(s.ctx, &models.Player{Alias: ptr("keeper"), CredentialSecret: ptr("s3cret")})
	s.Require().NoError(err)
	s.Require().NotNil(player.CredentialSecret)
	s.True(secrets.IsHash(*player.CredentialSecret))
	s.NoError(secrets.Verify("s3cret", *player.CredentialSecret))

	s.Run("a full update carrying the stored hash keeps it", func() {
		stored := *player.CredentialSecret
		updated, err := s.players.Update(s.ctx, player.ID, &models.Player{ID: player.ID, Alias: ptr("keeper"), CredentialSecret: &stored})
		s.Require().NoError(err)
		s.Equal(stored, *updated.CredentialSecret)
	})

	s.Run("a patch hashes the new secret", func() {
		patched, err := s.players.PartialUpdate(s.ctx, player.ID, models.PlayerPatch{
			ID:               player.ID,
			CredentialSecret: optional.Of("n3w"),
		})
		s.Require().NoError(err)
		s.NoError(secrets.Verify("n3w", *patched.CredentialSecret))
	})

	s.Run("a patch without the secret leaves it untouched", func() {
		before, err := s.stores.Players.FindByID(s.ctx, player.ID)
		s.Require().NoError(err)
		patched, err := s.players.PartialUpdate(s.ctx, player.ID, models.PlayerPatch{
			ID:              player.ID,
			IsAdministrator: optional.Of(true),
		})
		s.Require().NoError(err)
		s.Equal(*before.CredentialSecret, *patched.CredentialSecret)
		s.True(*patched.IsAdministrator)
	})
}

func (s *ServiceSuite) TestReadThroughCache() {
	region := s.createRegion("Auvergne")

	_, err := s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.True(s.mini.Exists(cache.RegionKey(region.ID)))

	_, err = s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.CacheLookups.WithLabelValues("region", "hit")))

	s.Run("a new city invalidates its region", func() {
		city := s.createCity("Clermont", region.ID)
		s.False(s.mini.Exists(cache.RegionKey(region.ID)))

		found, err := s.regions.FindOne(s.ctx, region.ID)
		s.Require().NoError(err)
		s.Require().Len(found.Cities, 1)
		s.Equal(city.ID, found.Cities[0].ID)
	})

	s.Run("renaming a region invalidates the cities embedding it", func() {
		cities, err := s.stores.Cities.ListByRegion(s.ctx, region.ID)
		s.Require().NoError(err)
		s.Require().Len(cities, 1)
		_, err = s.cities.FindOne(s.ctx, cities[0].ID)
		s.Require().NoError(err)
		s.True(s.mini.Exists(cache.CityKey(cities[0].ID)))

		_, err = s.regions.Update(s.ctx, region.ID, &models.Region{ID: region.ID, Name: ptr("Auvergne-Rhone")})
		s.Require().NoError(err)
		s.False(s.mini.Exists(cache.CityKey(cities[0].ID)))

		city, err := s.cities.FindOne(s.ctx, cities[0].ID)
		s.Require().NoError(err)
		s.Equal("Auvergne-Rhone", *city.Region.Name)
	})

	s.Run("unknown records are not cached", func() {
		found, err := s.regions.FindOne(s.ctx, 999)
		s.Require().NoError(err)
		s.Nil(found)
		s.False(s.mini.Exists(cache.RegionKey(999)))
	})
}

// gatedCache holds the first snapshot write until release is closed.
type gatedCache struct {
	cache.Cache
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedCache(c cache.Cache) *gatedCache {
	return &gatedCache{Cache: c, reached: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedCache) SetIfVersion(ctx context.Context, key string, version uint64, v any) (bool, error) {
	g.once.Do(func() {
		close(g.reached)
		<-g.release
	})
	return g.Cache.SetIfVersion(ctx, key, version, v)
}

func (s *ServiceSuite) TestReadRacingWriteDoesNotCacheStaleSnapshot() {
	// raceRead starts a FindOne, runs write once the read has loaded the
	// record but not yet cached it, and returns what the read saw.
	raceRead := func(regionID id.RegionID, write func(regions *RegionService)) *models.Region {
		gate := newGatedCache(cache.NewRedis(s.client))
		regions := NewRegionService(NewInMemoryTx(s.stores, time.Second),
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			WithCache(gate),
			WithPublisher(s.publisher),
		)

		type result struct {
			region *models.Region
			err    error
		}
		done := make(chan result, 1)
		go func() {
			r, err := regions.FindOne(s.ctx, regionID)
			done <- result{r, err}
		}()

		select {
		case <-gate.reached:
		case <-time.After(5 * time.Second):
			s.FailNow("read never reached the cache write")
		}
		write(regions)
		close(gate.release)

		res := <-done
		s.Require().NoError(res.err)
		return res.region
	}

	s.Run("a delete", func() {
		region := s.createRegion("Bourgogne")

		seen := raceRead(region.ID, func(regions *RegionService) {
			s.Require().NoError(regions.Delete(s.ctx, region.ID))
		})
		s.Require().NotNil(seen)
		s.False(s.mini.Exists(cache.RegionKey(region.ID)))

		found, err := s.regions.FindOne(s.ctx, region.ID)
		s.Require().NoError(err)
		s.Nil(found)
	})

	s.Run("a rename", func() {
		region := s.createRegion("Franche-Comte")

		seen := raceRead(region.ID, func(regions *RegionService) {
			_, err := regions.Update(s.ctx, region.ID, &models.Region{ID: region.ID, Name: ptr("Bourgogne-Franche-Comte")})
			s.Require().NoError(err)
		})
		s.Equal("Franche-Comte", *seen.Name)
		s.False(s.mini.Exists(cache.RegionKey(region.ID)))

		found, err := s.regions.FindOne(s.ctx, region.ID)
		s.Require().NoError(err)
		s.Equal("Bourgogne-Franche-Comte", *found.Name)
	})
}

func (s *ServiceSuite) TestPlayerPatchOfAdministratorFlagOnly() {
	region := s.createRegion("Bretagne")
	city := s.createCity("Brest", region.ID)
	registered := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	player, err := s.players.Create(s.ctx, &models.Player{
		Alias:            ptr("morgane"),
		CredentialSecret: ptr("s3cret"),
		RegisteredAt:     &registered,
		IsAdministrator:  ptr(false),
		CityID:           &city.ID,
	})
	s.Require().NoError(err)

	patched, err := s.players.PartialUpdate(s.ctx, player.ID, models.PlayerPatch{
		ID:              player.ID,
		IsAdministrator: optional.Of(true),
	})
	s.Require().NoError(err)
	s.Require().NotNil(patched)

	s.True(*patched.IsAdministrator)
	s.Equal("morgane", *patched.Alias)
	s.True(registered.Equal(*patched.RegisteredAt))
	s.Equal(*player.CredentialSecret, *patched.CredentialSecret)
	s.Equal(city.ID, patched.OwnerID())
	s.Require().NotNil(patched.City)
	s.Equal(city.ID, patched.City.ID)

	found, err := s.cities.FindOne(s.ctx, city.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Players, 1)
	s.True(*found.Players[0].IsAdministrator)
}

func (s *ServiceSuite) TestCacheOutageFallsBackToStore() {
	region := s.createRegion("Picardie")
	s.mini.SetError("LOADING")

	found, err := s.regions.FindOne(s.ctx, region.ID)
	s.Require().NoError(err)
	s.Equal(region.ID, found.ID)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.CacheLookups.WithLabelValues("region", "error")))
}

func (s *ServiceSuite) TestEventsCarryRequestMetadata() {
	region := s.createRegion("Centre")
	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0]
	s.Equal(events.EntityRegion, ev.Entity)
	s.Equal(int64(region.ID), ev.ID)
	s.False(ev.At.IsZero())
}

func (s *ServiceSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.regions.Create(ctx, &models.Region{Name: ptr("Late")})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

type failingRegionStore struct {
	RegionStore
}

func (failingRegionStore) ListAll(context.Context) ([]*models.Region, error) {
	return nil, errors.New("connection reset")
}

func (s *ServiceSuite) TestStoreFailureIsInternal() {
	stores := s.stores
	stores.Regions = failingRegionStore{RegionStore: s.stores.Regions}
	svc := NewRegionService(NewInMemoryTx(stores, 0), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err := svc.FindAll(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
