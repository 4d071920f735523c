package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mcoot/ffmarket/internal/api/handler"
	"github.com/mcoot/ffmarket/internal/api/middleware"
	"github.com/mcoot/ffmarket/internal/services/auth"
	"github.com/mcoot/ffmarket/internal/services/listing"
	"github.com/mcoot/ffmarket/internal/services/player"
	"github.com/mcoot/ffmarket/internal/services/team"
	"github.com/mcoot/ffmarket/internal/services/trade"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	TeamService   *team.Service
	PlayerService *player.Service
	Catalog       *listing.Catalog
	Executor      *trade.Executor
	// IdentifyLimiter throttles the identify endpoint. Nil disables throttling.
	IdentifyLimiter *middleware.RateLimiter
	CORSOrigins     []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	teamHandler := handler.NewTeamHandler(cfg.TeamService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	transferHandler := handler.NewTransferHandler(cfg.Catalog, cfg.Executor)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity
	var identify http.Handler = http.HandlerFunc(authHandler.Identify)
	if cfg.IdentifyLimiter != nil {
		identify = cfg.IdentifyLimiter.Middleware(identify)
	}
	api.Handle("/auth/identify", identify).Methods(http.MethodPost)
	api.Handle("/users/me", protected(authHandler.Me)).Methods(http.MethodGet)

	// Teams; /teams/me must be registered before /teams/{id}
	api.Handle("/teams/me", protected(teamHandler.Mine)).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id}", teamHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id}/players", teamHandler.Players).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id}/transfers", teamHandler.History).Methods(http.MethodGet)

	// Players
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.Handle("/players/{id}", protected(playerHandler.Update)).Methods(http.MethodPatch)

	// Transfer market
	api.HandleFunc("/transfers", transferHandler.List).Methods(http.MethodGet)
	api.Handle("/transfers", protected(transferHandler.Create)).Methods(http.MethodPost)
	api.Handle("/transfers/buy", protected(transferHandler.Buy)).Methods(http.MethodPost)
	api.Handle("/transfers/{id}", protected(transferHandler.Remove)).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(r)
}
