package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuffer is the per-subscription buffer of NewBroker.
const DefaultBuffer = 64

// Broker fans events out to its subscriptions. Publish never blocks; a
// subscription with a full buffer misses the event and the broker counts it
// as dropped.
type Broker[T any] struct {
	mu      sync.Mutex
	subs    map[uint64]chan Event[T]
	nextID  uint64
	buffer  int
	closed  bool
	dropped atomic.Uint64
	clock   func() time.Time
}

// NewBroker creates a broker with DefaultBuffer slots per subscription.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBuffer)
}

// NewBrokerWithBuffer creates a broker with size slots per subscription.
// Sizes below one are raised to one.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[uint64]chan Event[T]),
		buffer: max(size, 1),
		clock:  time.Now,
	}
}

// Subscribe registers a subscription that lives until ctx is done or the
// broker closes. Subscribing to a closed broker yields a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.buffer)
	if b.closed {
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.drop(id)
	}()
	return ch
}

func (b *Broker[T]) drop(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish stamps payload and offers it to every subscription. It returns the
// number of subscriptions that accepted the event.
func (b *Broker[T]) Publish(kind EventType, payload T) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}

	ev := Event[T]{Type: kind, Payload: payload, Timestamp: b.clock()}
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			b.dropped.Add(1)
		}
	}
	return delivered
}

// Dropped reports how many deliveries were skipped because a subscription
// buffer was full.
func (b *Broker[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close ends every subscription. Later publishes are ignored.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
