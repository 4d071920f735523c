package model

import (
	"errors"
	"fmt"
)

// Error classes. Every domain error below wraps exactly one of these so callers
// can branch on the class with errors.Is without listing every cause.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)

var (
	// Lookup errors
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTeamNotFound    = fmt.Errorf("team %w", ErrNotFound)
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)

	// Ownership errors
	ErrNotPlayerOwner  = fmt.Errorf("%w: you do not own this player", ErrForbidden)
	ErrNotListingOwner = fmt.Errorf("%w: you do not own this listing", ErrForbidden)

	// Uniqueness errors
	ErrAlreadyListed = fmt.Errorf("%w: player already listed", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrTeamExists    = fmt.Errorf("%w: user already has a team", ErrConflict)

	// Trade and validation errors
	ErrCannotBuyOwnPlayer   = fmt.Errorf("%w: cannot buy your own player", ErrBadRequest)
	ErrNoTeam               = fmt.Errorf("%w: buyer has no team", ErrBadRequest)
	ErrSellerRosterTooSmall = fmt.Errorf("%w: seller team would fall below minimum players", ErrBadRequest)
	ErrBuyerRosterTooLarge  = fmt.Errorf("%w: buyer team would exceed maximum players", ErrBadRequest)
	ErrInsufficientFunds    = fmt.Errorf("%w: buyer team has insufficient budget", ErrBadRequest)
	ErrInvalidPrice         = fmt.Errorf("%w: asking price out of range", ErrBadRequest)
	ErrInvalidPosition      = fmt.Errorf("%w: invalid player position", ErrBadRequest)
)
