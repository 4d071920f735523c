package model

import (
	"strings"
	"time"
)

// PlayerID uniquely identifies a footballer
type PlayerID string

// Position is a player's role on the pitch
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionAttacker   Position = "ATT"
)

// Positions lists every valid position in squad order
var Positions = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionAttacker}

// ParsePosition parses a position code, case-insensitively
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Positions {
		if p == valid {
			return p, nil
		}
	}
	return "", ErrInvalidPosition
}

// Player belongs to exactly one team at any time
type Player struct {
	ID        PlayerID
	TeamID    TeamID
	Name      string
	Position  Position
	CreatedAt time.Time
}

// OwnedPlayer is a player together with the user that owns its team
type OwnedPlayer struct {
	Player
	OwnerUserID UserID
}
