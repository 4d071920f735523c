package roster

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ffmarket/internal/dependencies/mocks"
	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage/memory"
	"github.com/mcoot/ffmarket/internal/testutil"
)

type GeneratorSuite struct {
	suite.Suite
	storage   *memory.Storage
	random    *mocks.MockRandom
	generator *Generator
	ctx       context.Context
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom(1, 7)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.generator = New(s.storage, s.random, clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()

	err := s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Email: "a@example.com"})
	s.Require().NoError(err)
}

func (s *GeneratorSuite) TestCreateTeamSquadComposition() {
	team, err := s.generator.CreateTeam(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.DefaultBudget, team.Budget)

	players, err := s.storage.ListPlayersByTeam(s.ctx, team.ID)
	s.Require().NoError(err)
	s.Len(players, 20)

	counts := map[model.Position]int{}
	for _, p := range players {
		counts[p.Position]++
		s.NotEmpty(p.Name)
	}
	s.Equal(3, counts[model.PositionGoalkeeper])
	s.Equal(6, counts[model.PositionDefender])
	s.Equal(6, counts[model.PositionMidfielder])
	s.Equal(5, counts[model.PositionAttacker])
}

func (s *GeneratorSuite) TestSquadWithinRosterBounds() {
	bounds := model.DefaultRosterBounds()
	s.GreaterOrEqual(s.generator.SquadSize(), bounds.Min)
	s.LessOrEqual(s.generator.SquadSize(), bounds.Max)
}

func (s *GeneratorSuite) TestNamesDrawnFromRandom() {
	team, err := s.generator.CreateTeam(s.ctx, "u1")
	s.Require().NoError(err)

	players, err := s.storage.ListPlayersByTeam(s.ctx, team.ID)
	s.Require().NoError(err)

	names := map[string]bool{}
	for _, p := range players {
		names[p.Name] = true
	}
	s.True(names["Leo Kosta"])
}

func (s *GeneratorSuite) TestCreateTeamIsIdempotent() {
	first, err := s.generator.CreateTeam(s.ctx, "u1")
	s.Require().NoError(err)

	second, err := s.generator.CreateTeam(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	players, err := s.storage.ListPlayersByTeam(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Len(players, 20)
}

func (s *GeneratorSuite) TestHandleTeamCreationDropsUnknownUser() {
	err := s.generator.HandleTeamCreation(s.ctx, jobs.TeamCreation{UserID: "ghost"})
	s.NoError(err)

	_, err = s.storage.GetTeamByUser(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

func (s *GeneratorSuite) TestHandleTeamCreation() {
	s.Require().NoError(s.generator.HandleTeamCreation(s.ctx, jobs.TeamCreation{UserID: "u1"}))

	team, err := s.storage.GetTeamByUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), team.UserID)
}
