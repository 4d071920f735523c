package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/ffmarket/internal/model"
)

// ErrQueueClosed is returned when enqueueing on a closed queue
var ErrQueueClosed = errors.New("job queue closed")

// TeamCreation asks for a team and squad to be generated for a new user
type TeamCreation struct {
	UserID      model.UserID `json:"userId"`
	RequestedAt time.Time    `json:"requestedAt"`
}

// TeamCreationHandler processes one job. Returning an error requests redelivery.
type TeamCreationHandler func(ctx context.Context, job TeamCreation) error

// Queue carries team creation jobs from registration to the roster generator
type Queue interface {
	EnqueueTeamCreation(ctx context.Context, job TeamCreation) error
	// Start begins delivering jobs to handler in the background until Close
	Start(ctx context.Context, handler TeamCreationHandler) error
	Close() error
}
