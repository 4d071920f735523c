package handler

import (
	"net/http"

	"github.com/mcoot/ffmarket/internal/api/response"
)

// Health handles GET /api/v1/health
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
