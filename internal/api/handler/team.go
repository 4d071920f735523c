package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/api/response"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/team"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	teamService *team.Service
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *team.Service) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// Mine handles GET /api/v1/teams/me
func (h *TeamHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	roster, err := h.teamService.GetForUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamWithPlayersFromModel(roster))
}

// Get handles GET /api/v1/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.teamService.Get(r.Context(), teamID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamFromModel(t))
}

// Players handles GET /api/v1/teams/{id}/players
func (h *TeamHandler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.teamService.Players(r.Context(), teamID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// History handles GET /api/v1/teams/{id}/transfers
func (h *TeamHandler) History(w http.ResponseWriter, r *http.Request) {
	rows, err := h.teamService.History(r.Context(), teamID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(rows))
}

func teamID(r *http.Request) model.TeamID {
	return model.TeamID(mux.Vars(r)["id"])
}
