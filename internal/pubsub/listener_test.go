package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListener_ListenRepeatedly(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewListener[int](ctx, broker)
	broker.Publish(CreatedEvent, 1)
	broker.Publish(CreatedEvent, 2)

	first := l.Listen()().(Event[int])
	second := l.Listen()().(Event[int])
	require.Equal(t, 1, first.Payload)
	require.Equal(t, 2, second.Payload)
}

func TestListener_ContextDoneEndsChain(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := NewListener[string](ctx, broker)
	cancel()

	require.Nil(t, l.Listen()())
}

func TestListener_BrokerCloseEndsChain(t *testing.T) {
	broker := NewBroker[string]()
	l := NewListener[string](context.Background(), broker)
	broker.Close()

	require.Nil(t, l.Listen()())
}
