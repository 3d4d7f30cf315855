package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"projet/internal/geo/cache"
	"projet/internal/geo/events"
	"projet/internal/geo/models"
	"projet/internal/geo/relations"
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/platform/sentinel"
)

// CityService manages cities and their region link. Reads return the city
// with a snapshot of its region and its players.
type CityService struct {
	*base
}

func NewCityService(tx StoreTx, opts ...Option) *CityService {
	return &CityService{base: newBase(tx, opts...)}
}

// Create saves a new city, linking it to the region its RegionID names.
func (s *CityService) Create(ctx context.Context, draft *models.City) (out *models.City, err error) {
	ctx, span := s.startSpan(ctx, "CityService.Create")
	defer func() { endSpan(span, err) }()
	defer s.observe("create", time.Now())

	s.logger.DebugContext(ctx, "request to save city")
	if draft == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "city is required")
	}
	if !draft.ID.IsNil() {
		return nil, errIDExists(events.EntityCity)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		city := draft.Scalars()
		region, err := s.loadRegion(ctx, st, city.RegionID)
		if err != nil {
			return err
		}
		relations.SetRegion(city, nil, region)
		if err := st.Cities.Create(ctx, city); err != nil {
			return storeError(err, "failed to create city")
		}
		view, err := s.view(ctx, st, city)
		if err != nil {
			return err
		}
		out = view
		fx.touch(cache.CityKey(city.ID))
		if region != nil {
			fx.touch(cache.RegionKey(region.ID))
		}
		fx.record(events.EntityCity, events.ActionCreated, int64(city.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("city.id", int64(out.ID)))
	return out, nil
}

// Update replaces every field of an existing city, region link included.
func (s *CityService) Update(ctx context.Context, pathID id.CityID, city *models.City) (out *models.City, err error) {
	ctx, span := s.startSpan(ctx, "CityService.Update")
	span.SetAttributes(attribute.Int64("city.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("update", time.Now())

	s.logger.DebugContext(ctx, "request to update city", "id", pathID)
	if city == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "city is required")
	}
	if city.ID.IsNil() {
		return nil, errIDNull()
	}
	if city.ID != pathID {
		return nil, errIDInvalid()
	}
	if err := city.Validate(); err != nil {
		return nil, err
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Cities.FindByIDForUpdate(ctx, pathID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errNotFound(events.EntityCity)
			}
			return storeError(err, "failed to load city")
		}
		updated := city.Scalars()
		target, err := s.loadRegion(ctx, st, updated.RegionID)
		if err != nil {
			return err
		}
		view, err := s.save(ctx, st, fx, existing, updated, target)
		if err != nil {
			return err
		}
		out = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PartialUpdate merges the present fields of patch into the city. A present
// Region moves the city (null detaches it). It returns (nil, nil) when the
// city does not exist.
func (s *CityService) PartialUpdate(ctx context.Context, pathID id.CityID, patch models.CityPatch) (out *models.City, err error) {
	ctx, span := s.startSpan(ctx, "CityService.PartialUpdate")
	span.SetAttributes(attribute.Int64("city.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("partial_update", time.Now())

	s.logger.DebugContext(ctx, "request to partially update city", "id", pathID)
	if patch.ID.IsNil() {
		return nil, errIDNull()
	}
	if patch.ID != pathID {
		return nil, errIDInvalid()
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Cities.FindByIDForUpdate(ctx, pathID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errMissing
			}
			return storeError(err, "failed to load city")
		}
		merged := patch.Merge(existing)

		var target *models.Region
		if patch.Region.Present() {
			target, err = s.loadRegion(ctx, st, patch.Region.Ptr())
		} else {
			target, err = s.loadRegion(ctx, st, existing.RegionID)
		}
		if err != nil {
			return err
		}
		view, err := s.save(ctx, st, fx, existing, merged, target)
		if err != nil {
			return err
		}
		out = view
		return nil
	})
	if errors.Is(err, errMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementMergePatch(string(events.EntityCity))
	}
	return out, nil
}

// save moves updated under target through the relations package and
// persists it. existing is the stored state before the write.
func (s *CityService) save(ctx context.Context, st Stores, fx *effects, existing, updated *models.City, target *models.Region) (*models.City, error) {
	var previous *models.Region
	if owner := existing.OwnerID(); !owner.IsNil() {
		r, err := st.Regions.FindByID(ctx, owner)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, storeError(err, "failed to load region")
		}
		if r != nil {
			if previous, err = s.regionWithCities(ctx, st, r); err != nil {
				return nil, err
			}
		}
	}
	relations.SetRegion(updated, previous, target)

	if err := st.Cities.Update(ctx, updated); err != nil {
		return nil, storeError(err, "failed to update city")
	}
	view, err := s.view(ctx, st, updated)
	if err != nil {
		return nil, err
	}

	fx.touch(cache.CityKey(updated.ID))
	if previous != nil {
		fx.touch(cache.RegionKey(previous.ID))
	}
	if target != nil {
		fx.touch(cache.RegionKey(target.ID))
	}
	for _, p := range view.Players {
		fx.touch(cache.PlayerKey(p.ID))
	}
	fx.record(events.EntityCity, events.ActionUpdated, int64(updated.ID))
	return view, nil
}

// FindAll returns every city with its region snapshot and players, ordered by id.
func (s *CityService) FindAll(ctx context.Context) (out []*models.City, err error) {
	ctx, span := s.startSpan(ctx, "CityService.FindAll")
	defer func() { endSpan(span, err) }()
	defer s.observe("find_all", time.Now())

	s.logger.DebugContext(ctx, "request to get all cities")
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		cities, err := st.Cities.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list cities")
		}
		regions, err := st.Regions.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list regions")
		}
		players, err := st.Players.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list players")
		}
		regionByID := make(map[id.RegionID]*models.Region, len(regions))
		for _, r := range regions {
			regionByID[r.ID] = r
		}
		byCity := make(map[id.CityID][]*models.Player)
		for _, p := range players {
			if owner := p.OwnerID(); !owner.IsNil() {
				byCity[owner] = append(byCity[owner], p)
			}
		}
		for _, c := range cities {
			c.Region = regionByID[c.OwnerID()].Scalars()
			relations.SetPlayers(c, byCity[c.ID])
		}
		out = cities
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the city view, or (nil, nil) when unknown.
func (s *CityService) FindOne(ctx context.Context, cityID id.CityID) (out *models.City, err error) {
	ctx, span := s.startSpan(ctx, "CityService.FindOne")
	span.SetAttributes(attribute.Int64("city.id", int64(cityID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("find_one", time.Now())

	s.logger.DebugContext(ctx, "request to get city", "id", cityID)
	return readThrough(ctx, s.base, events.EntityCity, cache.CityKey(cityID),
		func(ctx context.Context) (*models.City, error) {
			var found *models.City
			err := s.tx.RunInTx(ctx, func(st Stores) error {
				city, err := st.Cities.FindByID(ctx, cityID)
				if err != nil {
					if errors.Is(err, sentinel.ErrNotFound) {
						return nil
					}
					return storeError(err, "failed to load city")
				}
				found, err = s.view(ctx, st, city)
				return err
			})
			return found, err
		},
		(*models.City).Clone,
	)
}

// Delete removes the city after detaching its players. Unknown ids succeed.
func (s *CityService) Delete(ctx context.Context, cityID id.CityID) (err error) {
	ctx, span := s.startSpan(ctx, "CityService.Delete")
	span.SetAttributes(attribute.Int64("city.id", int64(cityID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("delete", time.Now())

	s.logger.DebugContext(ctx, "request to delete city", "id", cityID)
	return s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Cities.FindByIDForUpdate(ctx, cityID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return storeError(err, "failed to load city")
		}
		detached, err := st.Players.DetachCity(ctx, cityID)
		if err != nil {
			return storeError(err, "failed to detach players")
		}
		if err := st.Cities.Delete(ctx, cityID); err != nil {
			return storeError(err, "failed to delete city")
		}
		fx.touch(cache.CityKey(cityID))
		if owner := existing.OwnerID(); !owner.IsNil() {
			fx.touch(cache.RegionKey(owner))
		}
		for _, playerID := range detached {
			fx.touch(cache.PlayerKey(playerID))
		}
		fx.record(events.EntityCity, events.ActionDeleted, int64(cityID))
		return nil
	})
}

// loadRegion resolves an owner reference. A nil reference yields a nil
// region; an unknown one is a bad request.
func (s *CityService) loadRegion(ctx context.Context, st Stores, regionID *id.RegionID) (*models.Region, error) {
	if regionID == nil || regionID.IsNil() {
		return nil, nil
	}
	region, err := st.Regions.FindByIDForUpdate(ctx, *regionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errNotFound(events.EntityRegion)
		}
		return nil, storeError(err, "failed to load region")
	}
	return s.regionWithCities(ctx, st, region)
}

func (s *CityService) regionWithCities(ctx context.Context, st Stores, region *models.Region) (*models.Region, error) {
	cities, err := st.Cities.ListByRegion(ctx, region.ID)
	if err != nil {
		return nil, storeError(err, "failed to load region cities")
	}
	relations.SetCities(region, cities)
	return region, nil
}

// view fills the region snapshot and the player set.
func (s *CityService) view(ctx context.Context, st Stores, city *models.City) (*models.City, error) {
	out := city.Scalars()
	if owner := out.OwnerID(); !owner.IsNil() {
		region, err := st.Regions.FindByID(ctx, owner)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, storeError(err, "failed to load region")
		}
		out.Region = region.Scalars()
	}
	players, err := st.Players.ListByCity(ctx, out.ID)
	if err != nil {
		return nil, storeError(err, "failed to load city players")
	}
	relations.SetPlayers(out, players)
	return out, nil
}

func (s *CityService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(string(events.EntityCity), operation, start)
	}
}
