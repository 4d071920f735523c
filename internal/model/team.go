package model

import "time"

// TeamID uniquely identifies a team
type TeamID string

// DefaultBudget is the budget every generated team starts with
const DefaultBudget int64 = 5_000_000

// Team is a user's squad and its transfer budget.
// Budget is in whole currency units and never negative.
type Team struct {
	ID        TeamID
	UserID    UserID
	Budget    int64
	CreatedAt time.Time
}

// RosterBounds are the inclusive squad size limits enforced on completed trades
type RosterBounds struct {
	Min int
	Max int
}

// DefaultRosterBounds returns the standard 15..25 squad size limits
func DefaultRosterBounds() RosterBounds {
	return RosterBounds{Min: 15, Max: 25}
}
