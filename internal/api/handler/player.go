package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/api/request"
	"github.com/mcoot/ffmarket/internal/api/response"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/player"
)

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	p, err := h.playerService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Update handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	rawID := mux.Vars(r)["id"]
	if err := request.ValidateID("id", rawID); err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdatePlayerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	update, err := request.ValidateUpdatePlayer(req)
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.playerService.UpdateProfile(r.Context(), model.PlayerID(rawID), userID, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}
