package handler

import (
	"net/http"

	"projet/internal/platform/middleware"
	id "projet/pkg/domain"
	"projet/pkg/platform/httputil"
)

func (h *Handler) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	region, err := h.regions.Create(ctx, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create region", err)
		return
	}
	w.Header().Set("Location", "/api/regions/"+region.ID.String())
	writeAlert(w, "region", "created", region.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, toRegionResponse(region))
}

func (h *Handler) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	regionID, ok := pathID(w, r, id.ParseRegionID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	region, err := h.regions.Update(ctx, regionID, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update region", err)
		return
	}
	writeAlert(w, "region", "updated", region.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toRegionResponse(region))
}

func (h *Handler) handlePatchRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	regionID, ok := pathID(w, r, id.ParseRegionID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegionPatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	region, err := h.regions.PartialUpdate(ctx, regionID, req.toPatch())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to patch region", err)
		return
	}
	if region == nil {
		h.writeNotFound(w, "region")
		return
	}
	writeAlert(w, "region", "updated", region.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toRegionResponse(region))
}

func (h *Handler) handleListRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regions, err := h.regions.FindAll(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list regions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(regions, toRegionResponse))
}

func (h *Handler) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regionID, ok := pathID(w, r, id.ParseRegionID)
	if !ok {
		return
	}
	region, err := h.regions.FindOne(ctx, regionID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get region", err)
		return
	}
	if region == nil {
		h.writeNotFound(w, "region")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRegionResponse(region))
}

func (h *Handler) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	regionID, ok := pathID(w, r, id.ParseRegionID)
	if !ok {
		return
	}
	if err := h.regions.Delete(ctx, regionID); err != nil {
		h.writeServiceError(ctx, w, "failed to delete region", err)
		return
	}
	writeAlert(w, "region", "deleted", regionID.String())
	w.WriteHeader(http.StatusNoContent)
}
