package memory

import (
	"context"
	"slices"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// tx buffers writes until commit. Reads see committed state only.
type tx struct {
	s      *Storage
	held   []string
	checks []func() error
	writes []func()
}

var _ storage.Tx = (*tx)(nil)

func (t *tx) lock(ctx context.Context, key string) error {
	if slices.Contains(t.held, key) {
		return nil
	}
	if err := t.s.locks.acquire(ctx, key, t.s.cfg.LockTimeout); err != nil {
		return err
	}
	t.held = append(t.held, key)
	return nil
}

func (t *tx) releaseAll() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.s.locks.release(t.held[i])
	}
	t.held = nil
}

// commit re-runs uniqueness checks and applies writes under one store lock,
// so a failed check leaves every record untouched.
func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, check := range t.checks {
		if err := check(); err != nil {
			return err
		}
	}
	for _, write := range t.writes {
		write()
	}
	return nil
}

// Player operations

func (t *tx) LockPlayer(ctx context.Context, id model.PlayerID) (*model.OwnedPlayer, error) {
	if err := t.lock(ctx, playerLockKey(string(id))); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	player, ok := t.s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	owned := &model.OwnedPlayer{Player: *player}
	if team, ok := t.s.teams[player.TeamID]; ok {
		owned.OwnerUserID = team.UserID
	}
	return owned, nil
}

func (t *tx) UpdatePlayerProfile(ctx context.Context, id model.PlayerID, name string, position model.Position) error {
	t.writes = append(t.writes, func() {
		if p, ok := t.s.players[id]; ok {
			p.Name = name
			p.Position = position
		}
	})
	return nil
}

func (t *tx) MovePlayer(ctx context.Context, id model.PlayerID, to model.TeamID) error {
	t.writes = append(t.writes, func() {
		if p, ok := t.s.players[id]; ok {
			p.TeamID = to
		}
	})
	return nil
}

// Listing operations

func (t *tx) LockListing(ctx context.Context, id model.ListingID) (*model.Listing, error) {
	if err := t.lock(ctx, listingLockKey(string(id))); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	l, ok := t.s.listings[id]
	t.s.mu.RUnlock()
	if !ok {
		return nil, model.ErrListingNotFound
	}

	if err := t.lock(ctx, playerLockKey(string(l.PlayerID))); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.listingLocked(id)
}

func (t *tx) InsertListing(ctx context.Context, listing *model.TransferListing) error {
	t.s.mu.RLock()
	_, listed := t.s.listingByPlayer[listing.PlayerID]
	_, exists := t.s.players[listing.PlayerID]
	t.s.mu.RUnlock()
	if !exists {
		return model.ErrPlayerNotFound
	}
	if listed {
		return model.ErrAlreadyListed
	}

	l := clone(listing)
	t.checks = append(t.checks, func() error {
		if _, ok := t.s.listingByPlayer[l.PlayerID]; ok {
			return model.ErrAlreadyListed
		}
		return nil
	})
	t.writes = append(t.writes, func() {
		t.s.listings[l.ID] = l
		t.s.listingByPlayer[l.PlayerID] = l.ID
	})
	return nil
}

func (t *tx) DeleteListing(ctx context.Context, id model.ListingID) error {
	t.writes = append(t.writes, func() {
		if l, ok := t.s.listings[id]; ok {
			delete(t.s.listingByPlayer, l.PlayerID)
			delete(t.s.listings, id)
		}
	})
	return nil
}

// Team operations

func (t *tx) TeamIDForUser(ctx context.Context, userID model.UserID) (model.TeamID, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	id, ok := t.s.teamByUser[userID]
	if !ok {
		return "", model.ErrTeamNotFound
	}
	return id, nil
}

func (t *tx) LockTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	if err := t.lock(ctx, teamLockKey(string(id))); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	team, ok := t.s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return clone(team), nil
}

func (t *tx) CountPlayers(ctx context.Context, teamID model.TeamID) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	count := 0
	for _, p := range t.s.players {
		if p.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (t *tx) SetBudget(ctx context.Context, teamID model.TeamID, budget int64) error {
	t.writes = append(t.writes, func() {
		if team, ok := t.s.teams[teamID]; ok {
			team.Budget = budget
		}
	})
	return nil
}

// History operations

func (t *tx) InsertHistory(ctx context.Context, h *model.TransferHistory) error {
	row := clone(h)
	t.writes = append(t.writes, func() {
		t.s.history = append(t.s.history, row)
	})
	return nil
}
