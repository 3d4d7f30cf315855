package handler

import (
	"net/http"

	"projet/internal/platform/middleware"
	id "projet/pkg/domain"
	"projet/pkg/platform/httputil"
)

func (h *Handler) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PlayerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	player, err := h.players.Create(ctx, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create player", err)
		return
	}
	w.Header().Set("Location", "/api/players/"+player.ID.String())
	writeAlert(w, "player", "created", player.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (h *Handler) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	playerID, ok := pathID(w, r, id.ParsePlayerID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PlayerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	player, err := h.players.Update(ctx, playerID, req.toModel())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update player", err)
		return
	}
	writeAlert(w, "player", "updated", player.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (h *Handler) handlePatchPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	playerID, ok := pathID(w, r, id.ParsePlayerID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PlayerPatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	player, err := h.players.PartialUpdate(ctx, playerID, req.toPatch())
	if err != nil {
		h.writeServiceError(ctx, w, "failed to patch player", err)
		return
	}
	if player == nil {
		h.writeNotFound(w, "player")
		return
	}
	writeAlert(w, "player", "updated", player.ID.String())
	httputil.WriteJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (h *Handler) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	players, err := h.players.FindAll(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list players", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapAll(players, toPlayerResponse))
}

func (h *Handler) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID, ok := pathID(w, r, id.ParsePlayerID)
	if !ok {
		return
	}
	player, err := h.players.FindOne(ctx, playerID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get player", err)
		return
	}
	if player == nil {
		h.writeNotFound(w, "player")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPlayerResponse(player))
}

func (h *Handler) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID, ok := pathID(w, r, id.ParsePlayerID)
	if !ok {
		return
	}
	if err := h.players.Delete(ctx, playerID); err != nil {
		h.writeServiceError(ctx, w, "failed to delete player", err)
		return
	}
	writeAlert(w, "player", "deleted", playerID.String())
	w.WriteHeader(http.StatusNoContent)
}
