package trade

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Invalidator drops cached listing pages after a trade commits
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Config holds trade rules and transaction limits
type Config struct {
	// SellerReceivesPercent is the share of the asking price the seller is paid
	// and the buyer is charged
	SellerReceivesPercent int64
	Roster                model.RosterBounds
	// TxTimeout bounds a single purchase transaction, independent of the caller
	TxTimeout     time.Duration
	MaxAttempts   uint
	RetryInterval time.Duration
}

// DefaultConfig returns the default trade rules
func DefaultConfig() Config {
	return Config{
		SellerReceivesPercent: 95,
		Roster:                model.DefaultRosterBounds(),
		TxTimeout:             10 * time.Second,
		MaxAttempts:           3,
		RetryInterval:         50 * time.Millisecond,
	}
}

// Executor validates and executes player purchases
type Executor struct {
	store       storage.TxRunner
	invalidator Invalidator
	clock       clockwork.Clock
	cfg         Config
	logger      *slog.Logger
}

// New creates a new trade executor. invalidator may be nil.
func New(store storage.TxRunner, invalidator Invalidator, clock clockwork.Clock, cfg Config, logger *slog.Logger) *Executor {
	defaults := DefaultConfig()
	if cfg.SellerReceivesPercent == 0 {
		cfg.SellerReceivesPercent = defaults.SellerReceivesPercent
	}
	if cfg.Roster == (model.RosterBounds{}) {
		cfg.Roster = defaults.Roster
	}
	if cfg.TxTimeout == 0 {
		cfg.TxTimeout = defaults.TxTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = defaults.RetryInterval
	}
	return &Executor{
		store:       store,
		invalidator: invalidator,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// FinalPrice is what the buyer pays and the seller receives, rounded down
func FinalPrice(askingPrice, sellerReceivesPercent int64) int64 {
	return askingPrice * sellerReceivesPercent / 100
}

// lockOrder returns two team ids in the order their rows must be locked.
// Every transaction locks the listing, then the player, then teams by
// ascending id, so no two transactions can wait on each other in a cycle.
func lockOrder(a, b model.TeamID) (model.TeamID, model.TeamID) {
	if b < a {
		return b, a
	}
	return a, b
}

// Buy purchases a listing on behalf of buyerUserID. Budgets, player ownership,
// the listing and the history row change together or not at all.
func (e *Executor) Buy(ctx context.Context, listingID model.ListingID, buyerUserID model.UserID) (*model.TradeResult, error) {
	// Finish the transaction even if the caller goes away
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.TxTimeout)
	defer cancel()

	logger := e.logger.With(
		slog.String("listing_id", string(listingID)),
		slog.String("buyer_user_id", string(buyerUserID)),
	)
	logger.Debug("trade started")

	var result *model.TradeResult
	err := e.store.InTx(txCtx, func(tx storage.Tx) error {
		var err error
		result, err = e.execute(txCtx, tx, listingID, buyerUserID)
		return err
	})
	if err != nil {
		logger.Info("trade failed", slog.Any("error", err))
		return nil, err
	}

	logger.Info("trade committed",
		slog.String("player_id", string(result.PlayerID)),
		slog.String("seller_team_id", string(result.SellerTeamID)),
		slog.String("buyer_team_id", string(result.BuyerTeamID)),
		slog.Int64("final_price", result.FinalPrice),
	)

	if e.invalidator != nil {
		e.invalidator.Invalidate(context.WithoutCancel(ctx))
	}
	return result, nil
}

func (e *Executor) execute(ctx context.Context, tx storage.Tx, listingID model.ListingID, buyerUserID model.UserID) (*model.TradeResult, error) {
	listing, err := tx.LockListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerUserID == buyerUserID {
		return nil, model.ErrCannotBuyOwnPlayer
	}

	buyerTeamID, err := tx.TeamIDForUser(ctx, buyerUserID)
	if errors.Is(err, model.ErrTeamNotFound) {
		return nil, model.ErrNoTeam
	}
	if err != nil {
		return nil, err
	}
	sellerTeamID := listing.SellerTeamID()
	if buyerTeamID == sellerTeamID {
		return nil, model.ErrCannotBuyOwnPlayer
	}

	teams := make(map[model.TeamID]*model.Team, 2)
	first, second := lockOrder(buyerTeamID, sellerTeamID)
	for _, id := range []model.TeamID{first, second} {
		team, err := tx.LockTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		teams[id] = team
	}
	buyer, seller := teams[buyerTeamID], teams[sellerTeamID]

	sellerCount, err := tx.CountPlayers(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	if sellerCount-1 < e.cfg.Roster.Min {
		return nil, model.ErrSellerRosterTooSmall
	}
	buyerCount, err := tx.CountPlayers(ctx, buyer.ID)
	if err != nil {
		return nil, err
	}
	if buyerCount+1 > e.cfg.Roster.Max {
		return nil, model.ErrBuyerRosterTooLarge
	}

	finalPrice := FinalPrice(listing.AskingPrice, e.cfg.SellerReceivesPercent)
	if buyer.Budget < finalPrice {
		return nil, model.ErrInsufficientFunds
	}

	if err := tx.SetBudget(ctx, buyer.ID, buyer.Budget-finalPrice); err != nil {
		return nil, err
	}
	if err := tx.SetBudget(ctx, seller.ID, seller.Budget+finalPrice); err != nil {
		return nil, err
	}
	if err := tx.MovePlayer(ctx, listing.PlayerID, buyer.ID); err != nil {
		return nil, err
	}
	err = tx.InsertHistory(ctx, &model.TransferHistory{
		ID:            uuid.NewString(),
		PlayerID:      listing.PlayerID,
		FromTeamID:    seller.ID,
		ToTeamID:      buyer.ID,
		Price:         finalPrice,
		TransferredAt: e.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := tx.DeleteListing(ctx, listing.ID); err != nil {
		return nil, err
	}

	return &model.TradeResult{
		FinalPrice:   finalPrice,
		PlayerID:     listing.PlayerID,
		BuyerTeamID:  buyer.ID,
		SellerTeamID: seller.ID,
	}, nil
}

// BuyWithRetry runs Buy, retrying with exponential backoff when the store
// reports lock contention. Business rule failures are returned immediately.
func (e *Executor) BuyWithRetry(ctx context.Context, listingID model.ListingID, buyerUserID model.UserID) (*model.TradeResult, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.RetryInterval

	return backoff.Retry(ctx, func() (*model.TradeResult, error) {
		result, err := e.Buy(ctx, listingID, buyerUserID)
		if err != nil && !storage.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return result, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(e.cfg.MaxAttempts))
}
