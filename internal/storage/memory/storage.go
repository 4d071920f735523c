package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Config holds settings for the in-memory store
type Config struct {
	// LockTimeout bounds how long a transaction waits for a row lock
	LockTimeout time.Duration
}

// DefaultConfig returns sensible defaults for the in-memory store
func DefaultConfig() Config {
	return Config{
		LockTimeout: 5 * time.Second,
	}
}

// Storage is an in-memory implementation of the entity store.
// Records are copied on the way in and out so callers never share memory with the store.
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	emailIndex      map[string]model.UserID
	teams           map[model.TeamID]*model.Team
	teamByUser      map[model.UserID]model.TeamID
	players         map[model.PlayerID]*model.Player
	listings        map[model.ListingID]*model.TransferListing
	listingByPlayer map[model.PlayerID]model.ListingID
	history         []*model.TransferHistory

	locks *rowLocks
	cfg   Config
}

// New creates a new in-memory store with default settings
func New() *Storage {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new in-memory store
func NewWithConfig(cfg Config) *Storage {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultConfig().LockTimeout
	}
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		emailIndex:      make(map[string]model.UserID),
		teams:           make(map[model.TeamID]*model.Team),
		teamByUser:      make(map[model.UserID]model.TeamID),
		players:         make(map[model.PlayerID]*model.Player),
		listings:        make(map[model.ListingID]*model.TransferListing),
		listingByPlayer: make(map[model.PlayerID]model.ListingID),
		locks:           newRowLocks(),
		cfg:             cfg,
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

// InTx runs fn with row locks held until it returns. Writes are buffered and
// applied under the store lock only if fn succeeds.
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	t := &tx{s: s}
	defer t.releaseAll()

	if err := fn(t); err != nil {
		return err
	}
	return t.commit()
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emailIndex[user.Email]; ok {
		return model.ErrEmailTaken
	}
	s.users[user.ID] = clone(user)
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return clone(user), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return clone(s.users[id]), nil
}

// Team operations

func (s *Storage) CreateTeam(ctx context.Context, team *model.Team, players []*model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[team.UserID]; !ok {
		return model.ErrUserNotFound
	}
	if _, ok := s.teamByUser[team.UserID]; ok {
		return model.ErrTeamExists
	}
	s.teams[team.ID] = clone(team)
	s.teamByUser[team.UserID] = team.ID
	for _, p := range players {
		s.players[p.ID] = clone(p)
	}
	return nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return clone(team), nil
}

func (s *Storage) GetTeamByUser(ctx context.Context, userID model.UserID) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.teamByUser[userID]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return clone(s.teams[id]), nil
}

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(player), nil
}

func (s *Storage) ListPlayersByTeam(ctx context.Context, teamID model.TeamID) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := []*model.Player{}
	for _, p := range s.players {
		if p.TeamID == teamID {
			players = append(players, clone(p))
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// Listing operations

func (s *Storage) GetListing(ctx context.Context, id model.ListingID) (*model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listingLocked(id)
}

// listingLocked builds the joined listing view. Caller must hold s.mu.
func (s *Storage) listingLocked(id model.ListingID) (*model.Listing, error) {
	l, ok := s.listings[id]
	if !ok {
		return nil, model.ErrListingNotFound
	}
	player, ok := s.players[l.PlayerID]
	if !ok {
		return nil, model.ErrListingNotFound
	}
	listing := &model.Listing{
		TransferListing: *l,
		Player:          *player,
	}
	if team, ok := s.teams[player.TeamID]; ok {
		listing.SellerUserID = team.UserID
	}
	return listing, nil
}

func (s *Storage) SearchListings(ctx context.Context, filter model.ListingFilter) ([]*model.Listing, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := strings.ToLower(filter.PlayerName)
	matches := []*model.Listing{}
	for id := range s.listings {
		l, err := s.listingLocked(id)
		if err != nil {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(l.Player.Name), name) {
			continue
		}
		if filter.TeamID != "" && l.Player.TeamID != filter.TeamID {
			continue
		}
		if filter.MinPrice != nil && l.AskingPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.AskingPrice > *filter.MaxPrice {
			continue
		}
		matches = append(matches, l)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	total := len(matches)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matches[start:end], total, nil
}

// History operations

func (s *Storage) ListHistoryForTeam(ctx context.Context, teamID model.TeamID) ([]*model.TransferHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []*model.TransferHistory{}
	for i := len(s.history) - 1; i >= 0; i-- {
		h := s.history[i]
		if h.FromTeamID == teamID || h.ToTeamID == teamID {
			rows = append(rows, clone(h))
		}
	}
	return rows, nil
}
