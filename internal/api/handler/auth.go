package handler

import (
	"net/http"

	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/api/request"
	"github.com/mcoot/ffmarket/internal/api/response"
	"github.com/mcoot/ffmarket/internal/services/auth"
)

// AuthHandler handles identity endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Identify handles POST /api/v1/auth/identify
func (h *AuthHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req request.IdentifyRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := request.ValidateIdentify(req); err != nil {
		WriteError(w, err)
		return
	}

	identity, err := h.authService.Identify(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if identity.Registered {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.IdentifyFromModel(identity))
}

// Me handles GET /api/v1/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	me, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MeFromModel(me))
}
