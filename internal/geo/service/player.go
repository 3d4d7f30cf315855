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

// PlayerService manages players and their city link. Credentials are stored
// as bcrypt hashes.
type PlayerService struct {
	*base
}

func NewPlayerService(tx StoreTx, opts ...Option) *PlayerService {
	return &PlayerService{base: newBase(tx, opts...)}
}

// Create saves a new player, linking it to the city its CityID names.
func (s *PlayerService) Create(ctx context.Context, draft *models.Player) (out *models.Player, err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.Create")
	defer func() { endSpan(span, err) }()
	defer s.observe("create", time.Now())

	s.logger.DebugContext(ctx, "request to save player")
	if draft == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "player is required")
	}
	if !draft.ID.IsNil() {
		return nil, errIDExists(events.EntityPlayer)
	}

	player := draft.Scalars()
	if player.CredentialSecret, err = s.hashSecret(player.CredentialSecret); err != nil {
		return nil, err
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		city, err := s.loadCity(ctx, st, player.CityID)
		if err != nil {
			return err
		}
		relations.SetCity(player, nil, city)
		if err := st.Players.Create(ctx, player); err != nil {
			return storeError(err, "failed to create player")
		}
		view, err := s.view(ctx, st, player)
		if err != nil {
			return err
		}
		out = view
		fx.touch(cache.PlayerKey(player.ID))
		if city != nil {
			fx.touch(cache.CityKey(city.ID))
		}
		fx.record(events.EntityPlayer, events.ActionCreated, int64(player.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("player.id", int64(out.ID)))
	return out, nil
}

// Update replaces every field of an existing player, city link included.
func (s *PlayerService) Update(ctx context.Context, pathID id.PlayerID, player *models.Player) (out *models.Player, err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.Update")
	span.SetAttributes(attribute.Int64("player.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("update", time.Now())

	s.logger.DebugContext(ctx, "request to update player", "id", pathID)
	if player == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "player is required")
	}
	if player.ID.IsNil() {
		return nil, errIDNull()
	}
	if player.ID != pathID {
		return nil, errIDInvalid()
	}

	updated := player.Scalars()
	if updated.CredentialSecret, err = s.hashSecret(updated.CredentialSecret); err != nil {
		return nil, err
	}

	err = s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Players.FindByIDForUpdate(ctx, pathID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errNotFound(events.EntityPlayer)
			}
			return storeError(err, "failed to load player")
		}
		target, err := s.loadCity(ctx, st, updated.CityID)
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

// PartialUpdate merges the present fields of patch into the player. A present
// City moves the player (null detaches it). It returns (nil, nil) when the
// player does not exist.
func (s *PlayerService) PartialUpdate(ctx context.Context, pathID id.PlayerID, patch models.PlayerPatch) (out *models.Player, err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.PartialUpdate")
	span.SetAttributes(attribute.Int64("player.id", int64(pathID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("partial_update", time.Now())

	s.logger.DebugContext(ctx, "request to partially update player", "id", pathID)
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
		existing, err := st.Players.FindByIDForUpdate(ctx, pathID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return errMissing
			}
			return storeError(err, "failed to load player")
		}
		merged := patch.Merge(existing)
		if patch.CredentialSecret.Present() {
			if merged.CredentialSecret, err = s.hashSecret(merged.CredentialSecret); err != nil {
				return err
			}
		}

		var target *models.City
		if patch.City.Present() {
			target, err = s.loadCity(ctx, st, patch.City.Ptr())
		} else {
			target, err = s.loadCity(ctx, st, existing.CityID)
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
		s.metrics.IncrementMergePatch(string(events.EntityPlayer))
	}
	return out, nil
}

// save moves updated under target through the relations package and
// persists it. existing is the stored state before the write.
func (s *PlayerService) save(ctx context.Context, st Stores, fx *effects, existing, updated *models.Player, target *models.City) (*models.Player, error) {
	var previous *models.City
	if owner := existing.OwnerID(); !owner.IsNil() {
		c, err := st.Cities.FindByID(ctx, owner)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, storeError(err, "failed to load city")
		}
		if c != nil {
			if previous, err = s.cityWithPlayers(ctx, st, c); err != nil {
				return nil, err
			}
		}
	}
	relations.SetCity(updated, previous, target)

	if err := st.Players.Update(ctx, updated); err != nil {
		return nil, storeError(err, "failed to update player")
	}
	view, err := s.view(ctx, st, updated)
	if err != nil {
		return nil, err
	}

	fx.touch(cache.PlayerKey(updated.ID))
	if previous != nil {
		fx.touch(cache.CityKey(previous.ID))
	}
	if target != nil {
		fx.touch(cache.CityKey(target.ID))
	}
	fx.record(events.EntityPlayer, events.ActionUpdated, int64(updated.ID))
	return view, nil
}

// FindAll returns every player with its city snapshot, ordered by id.
func (s *PlayerService) FindAll(ctx context.Context) (out []*models.Player, err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.FindAll")
	defer func() { endSpan(span, err) }()
	defer s.observe("find_all", time.Now())

	s.logger.DebugContext(ctx, "request to get all players")
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		players, err := st.Players.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list players")
		}
		cities, err := st.Cities.ListAll(ctx)
		if err != nil {
			return storeError(err, "failed to list cities")
		}
		cityByID := make(map[id.CityID]*models.City, len(cities))
		for _, c := range cities {
			cityByID[c.ID] = c
		}
		for _, p := range players {
			p.City = cityByID[p.OwnerID()].Scalars()
		}
		out = players
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the player view, or (nil, nil) when unknown.
func (s *PlayerService) FindOne(ctx context.Context, playerID id.PlayerID) (out *models.Player, err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.FindOne")
	span.SetAttributes(attribute.Int64("player.id", int64(playerID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("find_one", time.Now())

	s.logger.DebugContext(ctx, "request to get player", "id", playerID)
	return readThrough(ctx, s.base, events.EntityPlayer, cache.PlayerKey(playerID),
		func(ctx context.Context) (*models.Player, error) {
			var found *models.Player
			err := s.tx.RunInTx(ctx, func(st Stores) error {
				player, err := st.Players.FindByID(ctx, playerID)
				if err != nil {
					if errors.Is(err, sentinel.ErrNotFound) {
						return nil
					}
					return storeError(err, "failed to load player")
				}
				found, err = s.view(ctx, st, player)
				return err
			})
			return found, err
		},
		(*models.Player).Clone,
	)
}

// Delete removes the player. Unknown ids succeed.
func (s *PlayerService) Delete(ctx context.Context, playerID id.PlayerID) (err error) {
	ctx, span := s.startSpan(ctx, "PlayerService.Delete")
	span.SetAttributes(attribute.Int64("player.id", int64(playerID)))
	defer func() { endSpan(span, err) }()
	defer s.observe("delete", time.Now())

	s.logger.DebugContext(ctx, "request to delete player", "id", playerID)
	return s.run(ctx, func(st Stores, fx *effects) error {
		existing, err := st.Players.FindByIDForUpdate(ctx, playerID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			return storeError(err, "failed to load player")
		}
		if err := st.Players.Delete(ctx, playerID); err != nil {
			return storeError(err, "failed to delete player")
		}
		fx.touch(cache.PlayerKey(playerID))
		if owner := existing.OwnerID(); !owner.IsNil() {
			fx.touch(cache.CityKey(owner))
		}
		fx.record(events.EntityPlayer, events.ActionDeleted, int64(playerID))
		return nil
	})
}

// loadCity resolves an owner reference. A nil reference yields a nil city;
// an unknown one is a bad request.
func (s *PlayerService) loadCity(ctx context.Context, st Stores, cityID *id.CityID) (*models.City, error) {
	if cityID == nil || cityID.IsNil() {
		return nil, nil
	}
	city, err := st.Cities.FindByIDForUpdate(ctx, *cityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errNotFound(events.EntityCity)
		}
		return nil, storeError(err, "failed to load city")
	}
	return s.cityWithPlayers(ctx, st, city)
}

func (s *PlayerService) cityWithPlayers(ctx context.Context, st Stores, city *models.City) (*models.City, error) {
	players, err := st.Players.ListByCity(ctx, city.ID)
	if err != nil {
		return nil, storeError(err, "failed to load city players")
	}
	relations.SetPlayers(city, players)
	return city, nil
}

// view fills the city snapshot.
func (s *PlayerService) view(ctx context.Context, st Stores, player *models.Player) (*models.Player, error) {
	out := player.Scalars()
	if owner := out.OwnerID(); !owner.IsNil() {
		city, err := st.Cities.FindByID(ctx, owner)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, storeError(err, "failed to load city")
		}
		out.City = city.Scalars()
	}
	return out, nil
}

func (s *PlayerService) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(string(events.EntityPlayer), operation, start)
	}
}
