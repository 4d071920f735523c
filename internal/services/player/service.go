package player

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Store is the subset of the entity store used for player reads and updates
type Store interface {
	storage.TxRunner
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
}

// Invalidator drops cached listing pages, which embed player profiles
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// ProfileUpdate holds optional changes to a player. Nil fields are left as they are.
type ProfileUpdate struct {
	Name     *string
	Position *model.Position
}

// Service serves player reads and owner-only profile updates
type Service struct {
	store       Store
	invalidator Invalidator
	logger      *slog.Logger
}

// New creates a new player service. invalidator may be nil.
func New(store Store, invalidator Invalidator, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// UpdateProfile renames or repositions a player owned by userID
func (s *Service) UpdateProfile(ctx context.Context, id model.PlayerID, userID model.UserID, update ProfileUpdate) (*model.Player, error) {
	var updated model.Player
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		player, err := tx.LockPlayer(ctx, id)
		if err != nil {
			return err
		}
		if player.OwnerUserID != userID {
			return model.ErrNotPlayerOwner
		}

		updated = player.Player
		if update.Name != nil {
			updated.Name = strings.TrimSpace(*update.Name)
		}
		if update.Position != nil {
			updated.Position = *update.Position
		}
		return tx.UpdatePlayerProfile(ctx, id, updated.Name, updated.Position)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player profile updated", slog.String("player_id", string(id)))
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return &updated, nil
}
