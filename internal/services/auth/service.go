package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Messages returned by Identify
const (
	MessageRegistered = "User registered successfully. Team creation in progress."
	MessageLoggedIn   = "Logged in successfully"
)

// TeamCreationEnqueuer schedules squad generation for a new user
type TeamCreationEnqueuer interface {
	EnqueueTeamCreation(ctx context.Context, job jobs.TeamCreation) error
}

// Config holds configuration for the auth service
type Config struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		JWTSecret:  "dev-secret-change-me",
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Identity is the result of a successful identify call
type Identity struct {
	Token      string
	UserID     model.UserID
	Registered bool
	Message    string
}

// Me describes the calling user. TeamID is empty while team creation is pending.
type Me struct {
	User   *model.User
	TeamID model.TeamID
}

// Service handles registration, login and token validation
type Service struct {
	store  storage.Store
	queue  TeamCreationEnqueuer
	clock  clockwork.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a new auth service
func New(store storage.Store, queue TeamCreationEnqueuer, clock clockwork.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		store:  store,
		queue:  queue,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identify logs a user in, registering them first if the email is unknown.
// New users get a team creation job enqueued.
func (s *Service) Identify(ctx context.Context, email, password string) (*Identity, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.login(ctx, user, password)
	case !errors.Is(err, model.ErrUserNotFound):
		return nil, err
	}

	identity, err := s.register(ctx, email, password)
	if errors.Is(err, model.ErrEmailTaken) {
		// Lost a registration race for the same email
		user, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return s.login(ctx, user, password)
	}
	return identity, err
}

func (s *Service) register(ctx context.Context, email, password string) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           model.UserID(uuid.NewString()),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", string(user.ID)))
	s.enqueueTeam(ctx, user.ID)

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Token:      token,
		UserID:     user.ID,
		Registered: true,
		Message:    MessageRegistered,
	}, nil
}

func (s *Service) login(ctx context.Context, user *model.User, password string) (*Identity, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// A lost job leaves the user without a team; logging in schedules it again
	if _, err := s.store.GetTeamByUser(ctx, user.ID); errors.Is(err, model.ErrTeamNotFound) {
		s.enqueueTeam(ctx, user.ID)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Token:   token,
		UserID:  user.ID,
		Message: MessageLoggedIn,
	}, nil
}

func (s *Service) enqueueTeam(ctx context.Context, userID model.UserID) {
	job := jobs.TeamCreation{UserID: userID, RequestedAt: s.clock.Now()}
	if err := s.queue.EnqueueTeamCreation(ctx, job); err != nil {
		s.logger.Error("failed to enqueue team creation",
			slog.String("user_id", string(userID)),
			slog.Any("error", err),
		)
	}
}

func (s *Service) issueToken(userID model.UserID) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken checks a bearer token and returns the user it was issued to
func (s *Service) ValidateToken(token string) (model.UserID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return model.UserID(claims.Subject), nil
}

// Me returns the user and their team id, if the team exists yet
func (s *Service) Me(ctx context.Context, userID model.UserID) (*Me, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	me := &Me{User: user}
	team, err := s.store.GetTeamByUser(ctx, userID)
	switch {
	case err == nil:
		me.TeamID = team.ID
	case !errors.Is(err, model.ErrTeamNotFound):
		return nil, err
	}
	return me, nil
}
