package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ffmarket/internal/jobs"
	"github.com/mcoot/ffmarket/internal/testutil"
)

// fakeMsg records how a message was settled
type fakeMsg struct {
	jetstream.Msg
	data   []byte
	acked  bool
	naked  bool
	termed bool
}

func (m *fakeMsg) Data() []byte { return m.data }

func (m *fakeMsg) Ack() error {
	m.acked = true
	return nil
}

func (m *fakeMsg) NakWithDelay(delay time.Duration) error {
	m.naked = true
	return nil
}

func (m *fakeMsg) Term() error {
	m.termed = true
	return nil
}

func newTestQueue() *Queue {
	return &Queue{cfg: DefaultConfig(), logger: testutil.NopLogger()}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.URL)
	assert.Equal(t, "ffm.jobs.team_creation", cfg.Subject)
	assert.Positive(t, cfg.MaxDeliver)
}

func TestHandleAcksOnSuccess(t *testing.T) {
	q := newTestQueue()
	msg := &fakeMsg{data: []byte(`{"userId":"u1"}`)}

	var got jobs.TeamCreation
	q.handle(context.Background(), func(ctx context.Context, job jobs.TeamCreation) error {
		got = job
		return nil
	}, msg)

	require.True(t, msg.acked)
	assert.Equal(t, "u1", string(got.UserID))
}

func TestHandleNaksOnFailure(t *testing.T) {
	q := newTestQueue()
	msg := &fakeMsg{data: []byte(`{"userId":"u1"}`)}

	q.handle(context.Background(), func(ctx context.Context, job jobs.TeamCreation) error {
		return errors.New("store unavailable")
	}, msg)

	assert.True(t, msg.naked)
	assert.False(t, msg.acked)
}

func TestHandleTerminatesMalformed(t *testing.T) {
	q := newTestQueue()
	msg := &fakeMsg{data: []byte(`not json`)}

	called := false
	q.handle(context.Background(), func(ctx context.Context, job jobs.TeamCreation) error {
		called = true
		return nil
	}, msg)

	assert.True(t, msg.termed)
	assert.False(t, called)
}
