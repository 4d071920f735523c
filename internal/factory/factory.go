package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/ffmarket/internal/cache"
	memorycache "github.com/mcoot/ffmarket/internal/cache/memory"
	rediscache "github.com/mcoot/ffmarket/internal/cache/redis"
	"github.com/mcoot/ffmarket/internal/config"
	"github.com/mcoot/ffmarket/internal/dependencies/random"
	"github.com/mcoot/ffmarket/internal/jobs"
	memoryjobs "github.com/mcoot/ffmarket/internal/jobs/memory"
	natsjobs "github.com/mcoot/ffmarket/internal/jobs/nats"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/auth"
	"github.com/mcoot/ffmarket/internal/services/listing"
	"github.com/mcoot/ffmarket/internal/services/player"
	"github.com/mcoot/ffmarket/internal/services/roster"
	"github.com/mcoot/ffmarket/internal/services/team"
	"github.com/mcoot/ffmarket/internal/services/trade"
	"github.com/mcoot/ffmarket/internal/storage"
	"github.com/mcoot/ffmarket/internal/storage/memory"
	"github.com/mcoot/ffmarket/internal/storage/postgres"
)

// App contains all wired application components
type App struct {
	// Infrastructure
	Store storage.Store
	Cache cache.ListingCache
	Queue jobs.Queue

	// External dependencies
	Clock  clockwork.Clock
	Random random.Random

	// Services
	AuthService   *auth.Service
	TeamService   *team.Service
	PlayerService *player.Service
	Roster        *roster.Generator
	Catalog       *listing.Catalog
	Executor      *trade.Executor

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the entity store ("memory" or "postgres")
	// If empty, defaults to "memory"
	StorageType   string
	MemoryStorage memory.Config
	Postgres      postgres.Config
	// CacheType selects the listing cache ("none", "memory" or "redis")
	// If empty, no cache is used
	CacheType   string
	MemoryCache memorycache.Config
	RedisCache  rediscache.Config
	// QueueType selects the job queue ("memory" or "nats")
	// If empty, defaults to "memory"
	QueueType   string
	MemoryQueue memoryjobs.Config
	NATS        natsjobs.Config

	Auth    auth.Config
	Roster  roster.Config
	Listing listing.Config
	Trade   trade.Config
}

// DefaultConfig returns an all in-memory configuration with default component settings
func DefaultConfig() Config {
	return Config{
		StorageType:   config.StorageMemory,
		MemoryStorage: memory.DefaultConfig(),
		Postgres:      postgres.DefaultConfig(),
		CacheType:     config.CacheMemory,
		MemoryCache:   memorycache.DefaultConfig(),
		RedisCache:    rediscache.DefaultConfig(),
		QueueType:     config.QueueMemory,
		MemoryQueue:   memoryjobs.DefaultConfig(),
		NATS:          natsjobs.DefaultConfig(),
		Auth:          auth.DefaultConfig(),
		Roster:        roster.DefaultConfig(),
		Listing:       listing.DefaultConfig(),
		Trade:         trade.DefaultConfig(),
	}
}

// ConfigFromEnv maps environment configuration onto component configs
func ConfigFromEnv(env *config.Config, logger *slog.Logger) Config {
	cfg := DefaultConfig()
	cfg.Logger = logger

	cfg.StorageType = env.StorageType
	cfg.MemoryStorage.LockTimeout = env.DBLockTimeout
	cfg.Postgres.DSN = env.DatabaseURL
	cfg.Postgres.LockTimeout = env.DBLockTimeout

	cfg.CacheType = env.CacheType
	cfg.MemoryCache.TTL = env.ListingCacheTTL
	cfg.RedisCache.URL = env.RedisURL
	cfg.RedisCache.TTL = env.ListingCacheTTL

	cfg.QueueType = env.QueueType
	cfg.NATS.URL = env.NATSURL

	cfg.Auth.JWTSecret = env.JWTSecret
	cfg.Auth.TokenTTL = env.TokenTTL
	cfg.Roster.Budget = env.InitialBudget
	cfg.Listing = listing.Config{
		DefaultLimit: env.PageDefaultLimit,
		MinLimit:     env.PageMinLimit,
		MaxLimit:     env.PageMaxLimit,
	}
	cfg.Trade.SellerReceivesPercent = env.SellerReceivesPercent
	cfg.Trade.Roster = model.RosterBounds{Min: env.RosterMin, Max: env.RosterMax}
	cfg.Trade.TxTimeout = env.DBTxTimeout

	return cfg
}

// New creates a new application with all dependencies wired.
// The job queue is not consuming until Start is called.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth JWT secret is required")
	}

	var closers []io.Closer
	fail := func(err error) (*App, error) {
		closeAll(closers, logger)
		return nil, err
	}

	// Create storage based on type
	var store storage.Store
	switch cfg.StorageType {
	case "", config.StorageMemory:
		store = memory.NewWithConfig(cfg.MemoryStorage)
	case config.StoragePostgres:
		pg, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, pg)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		store = pg
	default:
		return fail(fmt.Errorf("invalid StorageType %q: must be 'memory' or 'postgres'", cfg.StorageType))
	}

	// Create listing cache based on type; nil disables caching
	var listingCache cache.ListingCache
	switch cfg.CacheType {
	case "", config.CacheNone:
	case config.CacheMemory:
		listingCache = memorycache.New(cfg.MemoryCache)
	case config.CacheRedis:
		rc, err := rediscache.New(cfg.RedisCache)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rc)
		listingCache = rc
	default:
		return fail(fmt.Errorf("invalid CacheType %q: must be 'none', 'memory' or 'redis'", cfg.CacheType))
	}

	// Create job queue based on type
	var queue jobs.Queue
	switch cfg.QueueType {
	case "", config.QueueMemory:
		queue = memoryjobs.New(cfg.MemoryQueue, logger)
	case config.QueueNATS:
		nq, err := natsjobs.New(ctx, cfg.NATS, logger)
		if err != nil {
			return fail(err)
		}
		queue = nq
	default:
		return fail(fmt.Errorf("invalid QueueType %q: must be 'memory' or 'nats'", cfg.QueueType))
	}

	app := newWithDependencies(store, listingCache, queue, clockwork.NewRealClock(), random.New(), cfg, logger)
	// Queue first so in-flight jobs finish before the store goes away
	app.closers = append([]io.Closer{queue}, closers...)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Store,
	listingCache cache.ListingCache,
	queue jobs.Queue,
	clk clockwork.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *App {
	catalog := listing.New(store, listingCache, clk, cfg.Listing, logger)

	return &App{
		Store:         store,
		Cache:         listingCache,
		Queue:         queue,
		Clock:         clk,
		Random:        rnd,
		AuthService:   auth.New(store, queue, clk, cfg.Auth, logger),
		TeamService:   team.New(store),
		PlayerService: player.New(store, catalog, logger),
		Roster:        roster.New(store, rnd, clk, cfg.Roster, logger),
		Catalog:       catalog,
		Executor:      trade.New(store, catalog, clk, cfg.Trade, logger),
	}
}

// Start begins consuming team creation jobs
func (a *App) Start(ctx context.Context) error {
	return a.Queue.Start(ctx, a.Roster.HandleTeamCreation)
}

// Close releases the queue, cache and store connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeAll(closers []io.Closer, logger *slog.Logger) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close component", slog.String("error", err.Error()))
		}
	}
}
