package nats

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Config holds NATS JetStream settings for the job queue
type Config struct {
	URL           string
	StreamName    string
	Subject       string
	ConsumerName  string
	MaxDeliver    int
	AckWait       time.Duration
	NakDelay      time.Duration
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns sensible defaults for a local NATS server
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		StreamName:    "FFM_JOBS",
		Subject:       "ffm.jobs.team_creation",
		ConsumerName:  "team-creation-worker",
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
		NakDelay:      time.Second,
		MaxReconnects: 10,
		ReconnectWait: 2 * time.Second,
	}
}
