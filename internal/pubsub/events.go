// Package pubsub carries events from background goroutines (the resource
// watcher, the logger) into the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies an event.
type EventType string

const (
	// CreatedEvent announces a new item, such as a log line.
	CreatedEvent EventType = "created"
	// ChangedEvent announces that watched files changed on disk.
	ChangedEvent EventType = "changed"
)

// Event is one published payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels that close with ctx.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}
