// Package handler exposes the registry over REST under /api.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"projet/internal/geo/models"
	"projet/internal/platform/middleware"
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks RegionService,CityService,PlayerService

// Header names carrying the entity alert on successful writes.
const (
	AlertHeader  = "X-Projet-Alert"
	ParamsHeader = "X-Projet-Params"
)

const appName = "projet"

type RegionService interface {
	Create(ctx context.Context, draft *models.Region) (*models.Region, error)
	Update(ctx context.Context, regionID id.RegionID, region *models.Region) (*models.Region, error)
	PartialUpdate(ctx context.Context, regionID id.RegionID, patch models.RegionPatch) (*models.Region, error)
	FindAll(ctx context.Context) ([]*models.Region, error)
	FindOne(ctx context.Context, regionID id.RegionID) (*models.Region, error)
	Delete(ctx context.Context, regionID id.RegionID) error
}

type CityService interface {
	Create(ctx context.Context, draft *models.City) (*models.City, error)
	Update(ctx context.Context, cityID id.CityID, city *models.City) (*models.City, error)
	PartialUpdate(ctx context.Context, cityID id.CityID, patch models.CityPatch) (*models.City, error)
	FindAll(ctx context.Context) ([]*models.City, error)
	FindOne(ctx context.Context, cityID id.CityID) (*models.City, error)
	Delete(ctx context.Context, cityID id.CityID) error
}

type PlayerService interface {
	Create(ctx context.Context, draft *models.Player) (*models.Player, error)
	Update(ctx context.Context, playerID id.PlayerID, player *models.Player) (*models.Player, error)
	PartialUpdate(ctx context.Context, playerID id.PlayerID, patch models.PlayerPatch) (*models.Player, error)
	FindAll(ctx context.Context) ([]*models.Player, error)
	FindOne(ctx context.Context, playerID id.PlayerID) (*models.Player, error)
	Delete(ctx context.Context, playerID id.PlayerID) error
}

// Handler serves the region, city and player resources.
type Handler struct {
	regions RegionService
	cities  CityService
	players PlayerService
	logger  *slog.Logger
}

func New(regions RegionService, cities CityService, players PlayerService, logger *slog.Logger) *Handler {
	return &Handler{
		regions: regions,
		cities:  cities,
		players: players,
		logger:  logger,
	}
}

// Register mounts the entity routes under /api.
func (h *Handler) Register(r chi.Router) {
	patchTypes := chimiddleware.AllowContentType("application/json", "application/merge-patch+json")

	r.Route("/api", func(r chi.Router) {
		r.Route("/regions", func(r chi.Router) {
			r.Post("/", h.handleCreateRegion)
			r.Get("/", h.handleListRegions)
			r.Get("/{id}", h.handleGetRegion)
			r.Put("/{id}", h.handleUpdateRegion)
			r.With(patchTypes).Patch("/{id}", h.handlePatchRegion)
			r.Delete("/{id}", h.handleDeleteRegion)
		})
		r.Route("/cities", func(r chi.Router) {
			r.Post("/", h.handleCreateCity)
			r.Get("/", h.handleListCities)
			r.Get("/{id}", h.handleGetCity)
			r.Put("/{id}", h.handleUpdateCity)
			r.With(patchTypes).Patch("/{id}", h.handlePatchCity)
			r.Delete("/{id}", h.handleDeleteCity)
		})
		r.Route("/players", func(r chi.Router) {
			r.Post("/", h.handleCreatePlayer)
			r.Get("/", h.handleListPlayers)
			r.Get("/{id}", h.handleGetPlayer)
			r.Put("/{id}", h.handleUpdatePlayer)
			r.With(patchTypes).Patch("/{id}", h.handlePatchPlayer)
			r.Delete("/{id}", h.handleDeletePlayer)
		})
	})
}

// writeAlert sets the entity alert headers, e.g. "projet.city.created".
func writeAlert(w http.ResponseWriter, entity, action, recordID string) {
	w.Header().Set(AlertHeader, appName+"."+entity+"."+action)
	w.Header().Set(ParamsHeader, recordID)
}

// writeServiceError logs err at a level matching its class and writes the
// error envelope.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	de, ok := dErrors.As(err)
	if ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func (h *Handler) writeNotFound(w http.ResponseWriter, entity string) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, entity+" not found"))
}

// pathID parses the {id} URL parameter. On failure it writes a 400 and
// returns false.
func pathID[T ~int64](w http.ResponseWriter, r *http.Request, parse func(string) (T, error)) (T, bool) {
	v, err := parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return v, true
}
