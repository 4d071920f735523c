package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/ffmarket/internal/cache"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Store is the subset of the entity store the catalog needs
type Store interface {
	storage.TxRunner
	GetListing(ctx context.Context, id model.ListingID) (*model.Listing, error)
	SearchListings(ctx context.Context, filter model.ListingFilter) ([]*model.Listing, int, error)
}

// Config holds pagination settings
type Config struct {
	DefaultLimit int
	MinLimit     int
	MaxLimit     int
}

// DefaultConfig returns default pagination settings
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 20,
		MinLimit:     1,
		MaxLimit:     100,
	}
}

// Catalog manages transfer listings and serves cached listing searches
type Catalog struct {
	store  Store
	cache  cache.ListingCache
	clock  clockwork.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a new catalog. cache may be nil, in which case every search hits the store.
func New(store Store, listingCache cache.ListingCache, clock clockwork.Clock, cfg Config, logger *slog.Logger) *Catalog {
	if cfg.DefaultLimit == 0 {
		cfg = DefaultConfig()
	}
	return &Catalog{
		store:  store,
		cache:  listingCache,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// Create lists a player for sale. Only the owner of the player's team may list it,
// and a player can have at most one listing.
func (c *Catalog) Create(ctx context.Context, playerID model.PlayerID, userID model.UserID, askingPrice int64) (*model.Listing, error) {
	if askingPrice < model.MinAskingPrice || askingPrice > model.MaxAskingPrice {
		return nil, model.ErrInvalidPrice
	}

	var listing *model.Listing
	err := c.store.InTx(ctx, func(tx storage.Tx) error {
		player, err := tx.LockPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.OwnerUserID != userID {
			return model.ErrNotPlayerOwner
		}

		row := &model.TransferListing{
			ID:          model.ListingID(uuid.NewString()),
			PlayerID:    playerID,
			AskingPrice: askingPrice,
			CreatedAt:   c.clock.Now(),
		}
		if err := tx.InsertListing(ctx, row); err != nil {
			return err
		}

		listing = &model.Listing{
			TransferListing: *row,
			Player:          player.Player,
			SellerUserID:    userID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("listing created",
		slog.String("listing_id", string(listing.ID)),
		slog.String("player_id", string(playerID)),
		slog.Int64("asking_price", askingPrice),
	)
	c.Invalidate(ctx)
	return listing, nil
}

// Remove deletes a listing. Only the seller may remove it.
func (c *Catalog) Remove(ctx context.Context, listingID model.ListingID, userID model.UserID) error {
	err := c.store.InTx(ctx, func(tx storage.Tx) error {
		listing, err := tx.LockListing(ctx, listingID)
		if err != nil {
			return err
		}
		if listing.SellerUserID != userID {
			return model.ErrNotListingOwner
		}
		return tx.DeleteListing(ctx, listingID)
	})
	if err != nil {
		return err
	}

	c.logger.Info("listing removed", slog.String("listing_id", string(listingID)))
	c.Invalidate(ctx)
	return nil
}

// Get returns a single listing
func (c *Catalog) Get(ctx context.Context, listingID model.ListingID) (*model.Listing, error) {
	return c.store.GetListing(ctx, listingID)
}

// List returns one page of listings matching filter, newest first
func (c *Catalog) List(ctx context.Context, filter model.ListingFilter) (*model.ListingPage, error) {
	filter = c.Normalize(filter)

	key, cacheable := c.cacheKey(ctx, filter)
	if cacheable {
		if page, ok := c.readCache(ctx, key); ok {
			return page, nil
		}
	}

	listings, total, err := c.store.SearchListings(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &model.ListingPage{
		Listings: listings,
		Pagination: model.Pagination{
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			Total:   total,
			HasMore: filter.Offset+len(listings) < total,
		},
	}

	if cacheable {
		c.writeCache(ctx, key, page)
	}
	return page, nil
}

// Normalize clamps pagination and canonicalises the name filter
func (c *Catalog) Normalize(filter model.ListingFilter) model.ListingFilter {
	switch {
	case filter.Limit == 0:
		filter.Limit = c.cfg.DefaultLimit
	case filter.Limit < c.cfg.MinLimit:
		filter.Limit = c.cfg.MinLimit
	case filter.Limit > c.cfg.MaxLimit:
		filter.Limit = c.cfg.MaxLimit
	}
	filter.Offset = max(filter.Offset, 0)
	filter.PlayerName = strings.ToLower(strings.TrimSpace(filter.PlayerName))
	return filter
}

// Invalidate orphans every cached listing page. Failures are logged, not returned.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Bump(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("failed to invalidate listing cache", slog.Any("error", err))
	}
}

func (c *Catalog) cacheKey(ctx context.Context, filter model.ListingFilter) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	version, err := c.cache.Version(ctx)
	if err != nil {
		c.logger.Warn("failed to read listing cache version", slog.Any("error", err))
		return "", false
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("v%d:%s", version, data), true
}

func (c *Catalog) readCache(ctx context.Context, key string) (*model.ListingPage, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn("failed to read listing cache", slog.Any("error", err))
		}
		return nil, false
	}
	var page model.ListingPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("discarding corrupt listing cache entry", slog.Any("error", err))
		return nil, false
	}
	return &page, true
}

func (c *Catalog) writeCache(ctx context.Context, key string, page *model.ListingPage) {
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data); err != nil {
		c.logger.Warn("failed to write listing cache", slog.Any("error", err))
	}
}
