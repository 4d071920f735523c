package storage

import (
	"context"
	"errors"

	"github.com/mcoot/ffmarket/internal/model"
)

// Store contention errors. Both are safe to retry: the transaction that saw
// them was rolled back without applying any writes.
var (
	ErrLockTimeout = errors.New("timed out waiting for row lock")
	ErrTransient   = errors.New("transient store contention")
)

// IsRetryable reports whether err came from lock contention rather than a business rule
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrTransient)
}

// TxRunner runs fn inside a single store transaction.
// If fn returns an error every write made through the Tx is discarded.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside a transaction.
// Lock* methods take exclusive row locks held until the transaction ends.
// Callers must acquire locks in the order listing, player, teams (ascending id).
type Tx interface {
	// LockPlayer locks a player row and returns it with its owner
	LockPlayer(ctx context.Context, id model.PlayerID) (*model.OwnedPlayer, error)
	// UpdatePlayerProfile changes a player's name and position
	UpdatePlayerProfile(ctx context.Context, id model.PlayerID, name string, position model.Position) error
	// MovePlayer reassigns a player to another team
	MovePlayer(ctx context.Context, id model.PlayerID, to model.TeamID) error

	// LockListing locks a listing and its player row
	LockListing(ctx context.Context, id model.ListingID) (*model.Listing, error)
	// InsertListing fails with model.ErrAlreadyListed if the player already has a listing
	InsertListing(ctx context.Context, listing *model.TransferListing) error
	DeleteListing(ctx context.Context, id model.ListingID) error

	// TeamIDForUser resolves a user's team without locking it
	TeamIDForUser(ctx context.Context, userID model.UserID) (model.TeamID, error)
	LockTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	CountPlayers(ctx context.Context, teamID model.TeamID) (int, error)
	SetBudget(ctx context.Context, teamID model.TeamID, budget int64) error

	InsertHistory(ctx context.Context, h *model.TransferHistory) error
}

// Store is the entity store for users, teams, players, listings and history
type Store interface {
	TxRunner

	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Team operations
	// CreateTeam stores a team and its whole squad atomically
	CreateTeam(ctx context.Context, team *model.Team, players []*model.Player) error
	GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	GetTeamByUser(ctx context.Context, userID model.UserID) (*model.Team, error)

	// Player operations
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID model.TeamID) ([]*model.Player, error)

	// Listing operations
	GetListing(ctx context.Context, id model.ListingID) (*model.Listing, error)
	// SearchListings returns one page of matches, newest first, and the total match count
	SearchListings(ctx context.Context, filter model.ListingFilter) ([]*model.Listing, int, error)

	// History operations
	ListHistoryForTeam(ctx context.Context, teamID model.TeamID) ([]*model.TransferHistory, error)

	Close() error
}
