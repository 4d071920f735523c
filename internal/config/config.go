package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names accepted by STORAGE_TYPE, CACHE_TYPE and QUEUE_TYPE
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"

	QueueMemory = "memory"
	QueueNATS   = "nats"
)

// Config is the server configuration read from the environment
type Config struct {
	Port     int    `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType   string        `env:"STORAGE_TYPE"    envDefault:"memory"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	DBLockTimeout time.Duration `env:"DB_LOCK_TIMEOUT" envDefault:"5s"`
	DBTxTimeout   time.Duration `env:"DB_TX_TIMEOUT"   envDefault:"10s"`

	CacheType       string        `env:"CACHE_TYPE"        envDefault:"memory"`
	RedisURL        string        `env:"REDIS_URL"`
	ListingCacheTTL time.Duration `env:"LISTING_CACHE_TTL" envDefault:"60s"`

	QueueType string `env:"QUEUE_TYPE" envDefault:"memory"`
	NATSURL   string `env:"NATS_URL"   envDefault:"nats://127.0.0.1:4222"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"  envDefault:"24h"`

	SellerReceivesPercent int64 `env:"SELLER_RECEIVES_PERCENT" envDefault:"95"`
	RosterMin             int   `env:"ROSTER_MIN"              envDefault:"15"`
	RosterMax             int   `env:"ROSTER_MAX"              envDefault:"25"`
	InitialBudget         int64 `env:"INITIAL_BUDGET"          envDefault:"5000000"`

	PageDefaultLimit int `env:"PAGE_DEFAULT_LIMIT" envDefault:"20"`
	PageMinLimit     int `env:"PAGE_MIN_LIMIT"     envDefault:"1"`
	PageMaxLimit     int `env:"PAGE_MAX_LIMIT"     envDefault:"100"`

	IdentifyRatePerSec float64  `env:"IDENTIFY_RATE_PER_SEC" envDefault:"1"`
	IdentifyBurst      int      `env:"IDENTIFY_BURST"        envDefault:"5"`
	CORSOrigins        []string `env:"CORS_ORIGINS"          envDefault:"*" envSeparator:","`
}

// Load reads an optional dotenv file and then parses the environment.
// Variables already set in the environment take precedence over the file.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend selections and numeric ranges
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageType {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageType))
	}

	switch c.CacheType {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when CACHE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_TYPE must be one of none, memory, redis, got %q", c.CacheType))
	}

	switch c.QueueType {
	case QueueMemory, QueueNATS:
	default:
		errs = append(errs, fmt.Errorf("QUEUE_TYPE must be %q or %q, got %q", QueueMemory, QueueNATS, c.QueueType))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.DBLockTimeout <= 0 || c.DBTxTimeout <= 0 {
		errs = append(errs, errors.New("DB_LOCK_TIMEOUT and DB_TX_TIMEOUT must be positive"))
	}
	// Stale cache namespaces are only reclaimed by expiry
	if c.ListingCacheTTL <= 0 {
		errs = append(errs, errors.New("LISTING_CACHE_TTL must be positive"))
	}
	if c.SellerReceivesPercent < 1 || c.SellerReceivesPercent > 100 {
		errs = append(errs, errors.New("SELLER_RECEIVES_PERCENT must be between 1 and 100"))
	}
	if c.RosterMin < 1 || c.RosterMin > c.RosterMax {
		errs = append(errs, errors.New("ROSTER_MIN must be at least 1 and not above ROSTER_MAX"))
	}
	if c.InitialBudget <= 0 {
		errs = append(errs, errors.New("INITIAL_BUDGET must be positive"))
	}
	if c.PageMinLimit < 1 || c.PageMinLimit > c.PageMaxLimit ||
		c.PageDefaultLimit < c.PageMinLimit || c.PageDefaultLimit > c.PageMaxLimit {
		errs = append(errs, errors.New("page limits must satisfy 1 <= PAGE_MIN_LIMIT <= PAGE_DEFAULT_LIMIT <= PAGE_MAX_LIMIT"))
	}
	if c.IdentifyRatePerSec <= 0 || c.IdentifyBurst < 1 {
		errs = append(errs, errors.New("IDENTIFY_RATE_PER_SEC and IDENTIFY_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
