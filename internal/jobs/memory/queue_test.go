package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/testutil"
)

type QueueSuite struct {
	suite.Suite
	queue *Queue
	ctx   context.Context
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) SetupTest() {
	cfg := DefaultConfig()
	cfg.RetryInterval = time.Millisecond
	s.queue = New(cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *QueueSuite) TearDownTest() {
	_ = s.queue.Close()
}

func (s *QueueSuite) TestDeliversJobs() {
	var (
		mu   sync.Mutex
		seen []string
	)
	err := s.queue.Start(s.ctx, func(ctx context.Context, job jobs.TeamCreation) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(job.UserID))
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.queue.EnqueueTeamCreation(s.ctx, jobs.TeamCreation{UserID: "u1"}))
	s.Require().NoError(s.queue.EnqueueTeamCreation(s.ctx, jobs.TeamCreation{UserID: "u2"}))

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)
}

func (s *QueueSuite) TestRetriesFailingJob() {
	var attempts atomic.Int32
	err := s.queue.Start(s.ctx, func(ctx context.Context, job jobs.TeamCreation) error {
		if attempts.Add(1) < 3 {
			return errors.New("store unavailable")
		}
		return nil
	})
	s.Require().NoError(err)

	s.Require().NoError(s.queue.EnqueueTeamCreation(s.ctx, jobs.TeamCreation{UserID: "u1"}))

	s.Eventually(func() bool {
		return attempts.Load() == 3
	}, time.Second, 5*time.Millisecond)
}

func (s *QueueSuite) TestEnqueueAfterClose() {
	s.Require().NoError(s.queue.Close())
	err := s.queue.EnqueueTeamCreation(s.ctx, jobs.TeamCreation{UserID: "u1"})
	s.ErrorIs(err, jobs.ErrQueueClosed)
}
