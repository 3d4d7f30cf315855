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

// RegionService manages regions. Reads return the region with its cities.
type RegionService struct {
	*base
}

func NewRegionService(tx StoreTx, opts ...Option) *RegionService {
	return &RegionService{base: newBase(tx, opts...)}
}

// Create saves a new region. The draft must not carry an id.
func (s *RegionService) Create(ctx context.Context, draft *models.Region) (out *models.Region, err error) {
	ctx, span := s.startSpan(ctx, "RegionService.Create")
	defer func() { endSpan(span, err) }()
	defer s.observe("create", time.Now())

	s.logger.DebugContext(ctx, "request to save region")
	if draft == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "region is required")
	}
	if !draft.ID.IsNil() {
		return nil, errIDExists(events.EntityRegion)
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		region := draft.Scalars()
		if err := st.Regions.Create(ctx, region); err != nil {
			return storeError(err, "failed to create region")
		}
		out = region
		fx.touch(cache.RegionKey(region.ID))
		fx.record(events.EntityRegion, events.ActionCreated, int64(region.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("region.id", int64(out.ID)))
	return out, nil
}

// Update replaces every field of an existing region.
func (s *RegionService) Update(ctx context.Context, pathID id.RegionID, region *models.Region) (out *models.Region, err error) {
	ctx, span := s.startSpan(ctx, "RegionService.Update")
	span.SetAttributes(attribute.Int64("region.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("update", time.Now())

	s.logger.DebugContext(ctx, "request to update region", "id", pathID)
	if region == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "region is required")
	}
	if region.ID.IsNil() {
		return nil, errIDNull()
	}
	if region.ID != pathID {
		return nil, errIDInvalid()
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		if _, err := st.Regions.FindByIDForUpdate(ctx, pathID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errNotFound(events.EntityRegion)
			}
			return storeError(err, "failed to load region")
		}
		updated := region.Scalars()
		if err := st.Regions.Update(ctx, updated); err != nil {
			return storeError(err, "failed to update region")
		}
		view, err := s.view(ctx, st, updated)
		if err != nil {
			return err
		}
		out = view
		s.touchRegion(fx, view)
		fx.record(events.EntityRegion, events.ActionUpdated, int64(pathID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PartialUpdate merges the present fields of patch into the region. It
// returns (nil, nil) when the region does not exist.
func (s *RegionService) PartialUpdate(ctx context.Context, pathID id.RegionID, patch models.RegionPatch) (out *models.Region, err error) {
	ctx, span := s.startSpan(ctx, "RegionService.PartialUpdate")
	span.SetAttributes(attribute.Int64("region.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("partial_update", time.Now())

	s.logger.DebugContext(ctx, "request to partially update region", "id", pathID)
	if patch.ID.IsNil() {
		return nil, errIDNull()
	}
	if patch.ID != pathID {
		return nil, errIDInvalid()
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Regions.FindByIDForUpdate(ctx, pathID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errMissing
			}
			return storeError(err, "failed to load region")
		}
		merged := patch.Merge(existing)
		if err := st.Regions.Update(ctx, merged); err != nil {
			return storeError(err, "failed to update region")
		}
		view, err := s.view(ctx, st, merged)
		if err != nil {
			return err
		}
		out = view
		s.touchRegion(fx, view)
		fx.record(events.EntityRegion, events.ActionUpdated, int64(pathID))
		return nil
	})
	if errors.Is(err, errMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementMergePatch(string(events.EntityRegion))
	}
	return out, nil
}

// FindAll returns every region with its cities, ordered by id.
func (s *RegionService) FindAll(ctx context.Context) (out []*models.Region, err error) {
	ctx, span := s.startSpan(ctx, "RegionService.FindAll")
	defer func() { endSpan(span, err) }()
	defer s.observe("find_all", time.Now())

	s.logger.DebugContext(ctx, "request to get all regions")
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		regions, err := st.Regions.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list regions")
		}
		cities, err := st.Cities.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list cities")
		}
		byRegion := make(map[id.RegionID][]*models.City)
		for _, c := range cities {
			if owner := c.OwnerID(); !owner.IsNil() {
				byRegion[owner] = append(byRegion[owner], c)
			}
		}
		for _, r := range regions {
			relations.SetCities(r, byRegion[r.ID])
		}
		out = regions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the region with its cities, or (nil, nil) when unknown.
func (s *RegionService) FindOne(ctx context.Context, regionID id.RegionID) (out *models.Region, err error) {
	ctx, span := s.startSpan(ctx, "RegionService.FindOne")
	span.SetAttributes(attribute.Int64("region.id", int64(regionID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("find_one", time.Now())

	s.logger.DebugContext(ctx, "request to get region", "id", regionID)
	return readThrough(ctx, s.base, events.EntityRegion, cache.RegionKey(regionID),
		func(ctx context.Context) (*models.Region, error) {
			var found *models.Region
			err := s.tx.RunInTx(ctx, func(st Stores) error {
				region, err := st.Regions.FindByID(ctx, regionID)
				if err != nil {
					if errors.Is(err, sentinel.ErrNotFound) {
						return nil
					}
					return storeError(err, "failed to load region")
				}
				found, err = s.view(ctx, st, region)
				return err
			})
			return found, err
		},
		(*models.Region).Clone,
	)
}

// Delete removes the region after detaching its cities. Unknown ids succeed.
func (s *RegionService) Delete(ctx context.Context, regionID id.RegionID) (err error) {
	ctx, span := s.startSpan(ctx, "RegionService.Delete")
	span.SetAttributes(attribute.Int64("region.id", int64(regionID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("delete", time.Now())

	s.logger.DebugContext(ctx, "request to delete region", "id", regionID)
	return s.run(ctx, func(st Stores, fx *effects) error {
		if _, err := st.Regions.FindByIDForUpdate(ctx, regionID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return storeError(err, "failed to load region")
		}
		detached, err := st.Cities.DetachRegion(ctx, regionID)
		if err != nil {
			return storeError(err, "failed to detach cities")
		}
		if err := st.Regions.Delete(ctx, regionID); err != nil {
			return storeError(err, "failed to delete region")
		}
		fx.touch(cache.RegionKey(regionID))
		for _, cityID := range detached {
			fx.touch(cache.CityKey(cityID))
		}
		fx.record(events.EntityRegion, events.ActionDeleted, int64(regionID))
		return nil
	})
}

// view loads the region's child set.
func (s *RegionService) view(ctx context.Context, st Stores, region *models.Region) (*models.Region, error) {
	cities, err := st.Cities.ListByRegion(ctx, region.ID)
	if err != nil {
		return nil, storeError(err, "failed to load region cities")
	}
	out := region.Scalars()
	relations.SetCities(out, cities)
	return out, nil
}

// touchRegion marks the region and the cities embedding its snapshot.
func (s *RegionService) touchRegion(fx *effects, region *models.Region) {
	fx.touch(cache.RegionKey(region.ID))
	for _, c := range region.Cities {
		fx.touch(cache.CityKey(c.ID))
	}
}

func (s *RegionService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(string(events.EntityRegion), operation, start)
	}
}
