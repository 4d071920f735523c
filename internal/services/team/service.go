package team

import (
	"context"

	"github.com/mcoot/ffmarket/internal/model"
)

// Store is the subset of the entity store used for team reads
type Store interface {
	GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	GetTeamByUser(ctx context.Context, userID model.UserID) (*model.Team, error)
	ListPlayersByTeam(ctx context.Context, teamID model.TeamID) ([]*model.Player, error)
	ListHistoryForTeam(ctx context.Context, teamID model.TeamID) ([]*model.TransferHistory, error)
}

// Roster is a team with its current players
type Roster struct {
	Team    *model.Team
	Players []*model.Player
}

// Service serves team, roster and transfer history reads
type Service struct {
	store Store
}

// New creates a new team service
func New(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id model.TeamID) (*model.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// GetForUser returns the caller's team and players
func (s *Service) GetForUser(ctx context.Context, userID model.UserID) (*Roster, error) {
	team, err := s.store.GetTeamByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayersByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	return &Roster{Team: team, Players: players}, nil
}

// Players returns a team's players, or ErrTeamNotFound for an unknown team
func (s *Service) Players(ctx context.Context, id model.TeamID) ([]*model.Player, error) {
	if _, err := s.store.GetTeam(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListPlayersByTeam(ctx, id)
}

// History returns completed transfers in or out of a team, newest first
func (s *Service) History(ctx context.Context, id model.TeamID) ([]*model.TransferHistory, error) {
	if _, err := s.store.GetTeam(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListHistoryForTeam(ctx, id)
}
