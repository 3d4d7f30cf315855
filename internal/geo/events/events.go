// Package events announces committed registry changes to downstream
// consumers. Publishing trails the commit: a failed publish never undoes the
// write it describes.
package events

import (
	"context"
	"log/slog"
	"time"
)

type Entity string

const (
	EntityRegion Entity = "region"
	EntityCity   Entity = "city"
	EntityPlayer Entity = "player"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes one committed change to one record.
type Event struct {
	Entity    Entity    `json:"entity"`
	Action    Action    `json:"action"`
	ID        int64     `json:"id"`
	At        time.Time `json:"at"`
	RequestID string    `json:"requestId,omitempty"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to a structured logger. It is the default when
// no broker is configured and the fallback when the broker is failing.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "registry entity changed",
		"entity", event.Entity,
		"action", event.Action,
		"id", event.ID,
		"at", event.At,
		"request_id", event.RequestID,
	)
	return nil
}
