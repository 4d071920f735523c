package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mcoot/ffmarket/internal/jobs"
)

// Queue is a job queue backed by a durable JetStream stream and consumer.
// Jobs survive restarts and are redelivered until acked or MaxDeliver is reached.
type Queue struct {
	cfg    Config
	logger *slog.Logger
	nc     *nats.Conn
	js     jetstream.JetStream

	mu      sync.Mutex
	consume jetstream.ConsumeContext
}

// New connects to NATS and ensures the job stream exists
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Queue, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Error("NATS disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{cfg.Subject},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.StreamName, err)
	}

	return &Queue{
		cfg:    cfg,
		logger: logger,
		nc:     nc,
		js:     js,
	}, nil
}

// Ensure Queue implements the interface
var _ jobs.Queue = (*Queue)(nil)

func (q *Queue) EnqueueTeamCreation(ctx context.Context, job jobs.TeamCreation) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if _, err := q.js.Publish(ctx, q.cfg.Subject, data); err != nil {
		return fmt.Errorf("publish team creation job: %w", err)
	}
	return nil
}

func (q *Queue) Start(ctx context.Context, handler jobs.TeamCreationHandler) error {
	consumer, err := q.js.CreateOrUpdateConsumer(ctx, q.cfg.StreamName, jetstream.ConsumerConfig{
		Name:          q.cfg.ConsumerName,
		Durable:       q.cfg.ConsumerName,
		FilterSubject: q.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    q.cfg.MaxDeliver,
		AckWait:       q.cfg.AckWait,
	})
	if err != nil {
		return fmt.Errorf("ensure consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		q.handle(ctx, handler, msg)
	})
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	q.mu.Lock()
	q.consume = cc
	q.mu.Unlock()
	return nil
}

func (q *Queue) handle(ctx context.Context, handler jobs.TeamCreationHandler, msg jetstream.Msg) {
	var job jobs.TeamCreation
	if err := json.Unmarshal(msg.Data(), &job); err != nil {
		q.logger.Error("dropping malformed team creation job", slog.Any("error", err))
		_ = msg.Term()
		return
	}

	if err := handler(ctx, job); err != nil {
		q.logger.Warn("team creation job failed, will redeliver",
			slog.String("user_id", string(job.UserID)),
			slog.Any("error", err),
		)
		_ = msg.NakWithDelay(q.cfg.NakDelay)
		return
	}
	_ = msg.Ack()
}

// Close stops consuming and closes the NATS connection
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.consume != nil {
		q.consume.Stop()
		q.consume = nil
	}
	q.mu.Unlock()

	if err := q.nc.Drain(); err != nil {
		q.nc.Close()
	}
	return nil
}
