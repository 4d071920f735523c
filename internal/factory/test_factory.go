package factory

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	memorycache "github.com/mcoot/ffmarket/internal/cache/memory"
	"github.com/mcoot/ffmarket/internal/dependencies/mocks"
	memoryjobs "github.com/mcoot/ffmarket/internal/jobs/memory"
	"github.com/mcoot/ffmarket/internal/model"
	"github.com/mcoot/ffmarket/internal/services/auth"
	"github.com/mcoot/ffmarket/internal/storage/memory"
	"github.com/mcoot/ffmarket/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	FakeClock  *clockwork.FakeClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an in-memory App with a fake clock and scripted randomness.
// The job queue is not started; call Start to process team creation jobs in the background.
func NewTestApp() *TestApp {
	cfg := DefaultConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.MemoryStorage.LockTimeout = time.Second
	cfg.MemoryQueue.Workers = 1
	cfg.MemoryQueue.RetryInterval = time.Millisecond
	logger := testutil.NopLogger()

	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	queue := memoryjobs.New(cfg.MemoryQueue, logger)

	app := newWithDependencies(
		memory.NewWithConfig(cfg.MemoryStorage),
		memorycache.New(cfg.MemoryCache),
		queue,
		fakeClock,
		mockRandom,
		cfg,
		logger,
	)
	app.closers = append(app.closers, queue)

	return &TestApp{
		App:        app,
		FakeClock:  fakeClock,
		MockRandom: mockRandom,
	}
}

// Onboard identifies a new user and generates their team synchronously
func (t *TestApp) Onboard(ctx context.Context, email, password string) (*auth.Identity, *model.Team, error) {
	identity, err := t.AuthService.Identify(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	team, err := t.Roster.CreateTeam(ctx, identity.UserID)
	if err != nil {
		return nil, nil, err
	}
	return identity, team, nil
}
