package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mcoot/ffmarket/internal/jobs"
)

// Config holds settings for the in-process queue
type Config struct {
	Buffer      int
	Workers     int
	MaxAttempts uint
	// RetryInterval is the initial delay between attempts of a failing job
	RetryInterval time.Duration
}

// DefaultConfig returns sensible defaults for the in-process queue
func DefaultConfig() Config {
	return Config{
		Buffer:        256,
		Workers:       2,
		MaxAttempts:   5,
		RetryInterval: 100 * time.Millisecond,
	}
}

// Queue is an in-process job queue backed by a buffered channel and worker goroutines.
// Jobs are lost on restart.
type Queue struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.RWMutex
	jobs   chan jobs.TeamCreation
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new in-process queue
func New(cfg Config, logger *slog.Logger) *Queue {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultConfig().Buffer
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{
		cfg:    cfg,
		logger: logger,
		jobs:   make(chan jobs.TeamCreation, cfg.Buffer),
	}
}

// Ensure Queue implements the interface
var _ jobs.Queue = (*Queue)(nil)

func (q *Queue) EnqueueTeamCreation(ctx context.Context, job jobs.TeamCreation) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return jobs.ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Start(ctx context.Context, handler jobs.TeamCreationHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for range q.cfg.Workers {
		q.wg.Add(1)
		go q.work(ctx, handler)
	}
	return nil
}

func (q *Queue) work(ctx context.Context, handler jobs.TeamCreationHandler) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.process(ctx, handler, job)
		}
	}
}

func (q *Queue) process(ctx context.Context, handler jobs.TeamCreationHandler, job jobs.TeamCreation) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.cfg.RetryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, handler(ctx, job)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(q.cfg.MaxAttempts))
	if err != nil {
		q.logger.Error("team creation job failed",
			slog.String("user_id", string(job.UserID)),
			slog.Any("error", err),
		)
	}
}

// Close stops accepting jobs, drains the buffer and waits for workers to exit
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	if q.cancel != nil {
		q.cancel()
	}
	return nil
}
