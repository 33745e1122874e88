package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener holds one subscription open across Update calls. Each Listen
// command yields a single Event[T]; issue Listen again after handling it.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to src until ctx is done.
func NewListener[T any](ctx context.Context, src Subscriber[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: src.Subscribe(ctx)}
}

// Listen returns a command that waits for the next event. The command
// yields nil once the context is done or the subscription closes, which
// ends the chain.
func (l *Listener[T]) Listen() tea.Cmd {
	ctx, ch := l.ctx, l.ch
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}
