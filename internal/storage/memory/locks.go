package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/ffmarket/internal/storage"
)

// rowLocks emulates exclusive row locks. Each key owns a one-slot channel:
// sending claims the row, receiving frees it.
type rowLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newRowLocks() *rowLocks {
	return &rowLocks{slots: make(map[string]chan struct{})}
}

func (l *rowLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// acquire blocks until the row is free, the timeout fires or ctx is done
func (l *rowLocks) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return storage.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *rowLocks) release(key string) {
	<-l.slot(key)
}

func listingLockKey(id string) string { return "listing:" + id }
func playerLockKey(id string) string  { return "player:" + id }
func teamLockKey(id string) string    { return "team:" + id }
