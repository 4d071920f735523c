package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/storage/memory"
	"github.com/mcoot/ffmarket/internal/testutil"
)

// recordingQueue captures enqueued jobs
type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.TeamCreation
	err  error
}

func (q *recordingQueue) EnqueueTeamCreation(ctx context.Context, job jobs.TeamCreation) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	queue   *recordingQueue
	clock   *clockwork.FakeClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.queue = &recordingQueue{}
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost

	s.service = New(s.storage, s.queue, s.clock, cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

// Identify tests

func (s *ServiceSuite) TestIdentifyRegistersNewUser() {
	identity, err := s.service.Identify(s.ctx, "Alice@Example.com ", "password123")
	s.Require().NoError(err)

	s.True(identity.Registered)
	s.Equal(MessageRegistered, identity.Message)
	s.NotEmpty(identity.Token)

	user, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(identity.UserID, user.ID)
	s.NotEqual("password123", user.PasswordHash)

	s.Require().Equal(1, s.queue.count())
	s.Equal(identity.UserID, s.queue.jobs[0].UserID)
}

func (s *ServiceSuite) TestIdentifyLogsInExistingUser() {
	first, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	second, err := s.service.Identify(s.ctx, "ALICE@example.com", "password123")
	s.Require().NoError(err)

	s.False(second.Registered)
	s.Equal(MessageLoggedIn, second.Message)
	s.Equal(first.UserID, second.UserID)
}

func (s *ServiceSuite) TestIdentifyWrongPassword() {
	_, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	_, err = s.service.Identify(s.ctx, "alice@example.com", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestIdentifySucceedsWhenEnqueueFails() {
	s.queue.err = errors.New("queue down")

	identity, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.True(identity.Registered)
}

func (s *ServiceSuite) TestLoginReenqueuesMissingTeam() {
	_, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	_, err = s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(2, s.queue.count())
}

func (s *ServiceSuite) TestLoginSkipsEnqueueWhenTeamExists() {
	identity, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	err = s.storage.CreateTeam(s.ctx, &model.Team{ID: "t1", UserID: identity.UserID}, nil)
	s.Require().NoError(err)

	_, err = s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(1, s.queue.count())
}

// ValidateToken tests

func (s *ServiceSuite) TestValidateTokenSucceeds() {
	identity, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	userID, err := s.service.ValidateToken(identity.Token)
	s.Require().NoError(err)
	s.Equal(identity.UserID, userID)
}

func (s *ServiceSuite) TestValidateTokenRejectsGarbage() {
	_, err := s.service.ValidateToken("not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenRejectsExpired() {
	identity, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateToken(identity.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenRejectsOtherSecret() {
	cfg := DefaultConfig()
	cfg.JWTSecret = "other-secret"
	cfg.BcryptCost = bcrypt.MinCost
	other := New(s.storage, s.queue, s.clock, cfg, testutil.NopLogger())

	identity, err := other.Identify(s.ctx, "bob@example.com", "password123")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(identity.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

// Me tests

func (s *ServiceSuite) TestMeWithoutTeam() {
	identity, err := s.service.Identify(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	me, err := s.service.Me(s.ctx, identity.UserID)
	s.Require().NoError(err)
	s.Equal("alice@example.com", me.User.Email)
	s.Empty(me.TeamID)
}

func (s *ServiceSuite) TestMeUnknownUser() {
	_, err := s.service.Me(s.ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}
