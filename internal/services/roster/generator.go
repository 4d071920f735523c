package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/ffmarket/internal/dependencies/random"
	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/model"
)

var (
	firstNames = []string{"John", "Leo", "Mark", "Sam", "Chris", "David", "Niko", "Alex"}
	lastNames  = []string{"Smith", "Johnson", "Miller", "Brown", "Lopez", "Garcia", "Santos", "Kosta"}
)

// Slot is how many players of one position a new squad gets
type Slot struct {
	Position model.Position
	Count    int
}

// DefaultSquad is 3 goalkeepers, 6 defenders, 6 midfielders and 5 attackers
func DefaultSquad() []Slot {
	return []Slot{
		{Position: model.PositionGoalkeeper, Count: 3},
		{Position: model.PositionDefender, Count: 6},
		{Position: model.PositionMidfielder, Count: 6},
		{Position: model.PositionAttacker, Count: 5},
	}
}

// Store is the subset of the entity store the generator writes to
type Store interface {
	CreateTeam(ctx context.Context, team *model.Team, players []*model.Player) error
	GetTeamByUser(ctx context.Context, userID model.UserID) (*model.Team, error)
}

// Config holds configuration for squad generation
type Config struct {
	Budget int64
	Squad  []Slot
}

// DefaultConfig returns default generation settings
func DefaultConfig() Config {
	return Config{
		Budget: model.DefaultBudget,
		Squad:  DefaultSquad(),
	}
}

// Generator creates a team and its starting squad for a new user
type Generator struct {
	store  Store
	random random.Random
	clock  clockwork.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a new roster generator
func New(store Store, rng random.Random, clock clockwork.Clock, cfg Config, logger *slog.Logger) *Generator {
	if cfg.Budget == 0 {
		cfg.Budget = DefaultConfig().Budget
	}
	if len(cfg.Squad) == 0 {
		cfg.Squad = DefaultSquad()
	}
	return &Generator{
		store:  store,
		random: rng,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// SquadSize returns how many players a generated team starts with
func (g *Generator) SquadSize() int {
	n := 0
	for _, slot := range g.cfg.Squad {
		n += slot.Count
	}
	return n
}

// CreateTeam generates a team for userID. If the user already has a team it
// is returned unchanged.
func (g *Generator) CreateTeam(ctx context.Context, userID model.UserID) (*model.Team, error) {
	now := g.clock.Now()
	team := &model.Team{
		ID:        model.TeamID(uuid.NewString()),
		UserID:    userID,
		Budget:    g.cfg.Budget,
		CreatedAt: now,
	}

	players := make([]*model.Player, 0, g.SquadSize())
	for _, slot := range g.cfg.Squad {
		for range slot.Count {
			players = append(players, &model.Player{
				ID:        model.PlayerID(uuid.NewString()),
				TeamID:    team.ID,
				Name:      g.randomName(),
				Position:  slot.Position,
				CreatedAt: now,
			})
		}
	}

	err := g.store.CreateTeam(ctx, team, players)
	if errors.Is(err, model.ErrTeamExists) {
		return g.store.GetTeamByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Info("team created",
		slog.String("user_id", string(userID)),
		slog.String("team_id", string(team.ID)),
		slog.Int("players", len(players)),
	)
	return team, nil
}

// HandleTeamCreation processes a queued team creation job.
// Jobs for unknown users are dropped rather than redelivered.
func (g *Generator) HandleTeamCreation(ctx context.Context, job jobs.TeamCreation) error {
	_, err := g.CreateTeam(ctx, job.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		g.logger.Warn("dropping team creation for unknown user", slog.String("user_id", string(job.UserID)))
		return nil
	}
	return err
}

func (g *Generator) randomName() string {
	return random.Pick(g.random, firstNames) + " " + random.Pick(g.random, lastNames)
}
