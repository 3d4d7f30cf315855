package handler

import (
	"net/http"

	"projet/internal/platform/middleware"
	id "projet/pkg/domain"
	"projet/pkg/platform/httputil"
)

func (h *Handler) handleCreateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	city, err := h.cities.Create(ctx, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create city", err)
		return
	}
	w.Header().Set("Location", "/api/cities/"+city.ID.String())
	writeAlert(w, "city", "created", city.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, toCityResponse(city))
}

func (h *Handler) handleUpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	cityID, ok := pathID(w, r, id.ParseCityID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	city, err := h.cities.Update(ctx, cityID, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update city", err)
		return
	}
	writeAlert(w, "city", "updated", city.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toCityResponse(city))
}

func (h *Handler) handlePatchCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	cityID, ok := pathID(w, r, id.ParseCityID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CityPatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	city, err := h.cities.PartialUpdate(ctx, cityID, req.toPatch())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to patch city", err)
		return
	}
	if city == nil {
		h.writeNotFound(w, "city")
		return
	}
	writeAlert(w, "city", "updated", city.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toCityResponse(city))
}

func (h *Handler) handleListCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cities, err := h.cities.FindAll(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list cities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(cities, toCityResponse))
}

func (h *Handler) handleGetCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cityID, ok := pathID(w, r, id.ParseCityID)
	if !ok {
		return
	}
	city, err := h.cities.FindOne(ctx, cityID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get city", err)
		return
	}
	if city == nil {
		h.writeNotFound(w, "city")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCityResponse(city))
}

func (h *Handler) handleDeleteCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cityID, ok := pathID(w, r, id.ParseCityID)
	if !ok {
		return
	}
	if err := h.cities.Delete(ctx, cityID); err != nil {
		h.writeServiceError(ctx, w, "failed to delete city", err)
		return
	}
	writeAlert(w, "city", "deleted", cityID.String())
	w.WriteHeader(http.StatusNoContent)
}
