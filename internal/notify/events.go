package notify

import (
	"context"
	"sync"
)

// EventType describes a change to the notification queue.
type EventType string

const (
	EventAdded     EventType = "added"
	EventDismissed EventType = "dismissed"
)

// Event is delivered to subscribers for every queue change.
type Event struct {
	Type         EventType
	Notification Notification
}

type broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan Event
	nextID   uint64
	buffer   int
	closed   bool
	done     chan struct{}
}

func newBroadcaster(buffer int) *broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &broadcaster{watchers: make(map[uint64]chan Event), buffer: buffer, done: make(chan struct{})}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan Event {
	if ctx == nil {
		ctx = context.Background()
	}
	b.mu.Lock()
	if b.closed || ctx.Err() != nil {
		b.mu.Unlock()
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.buffer)
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.mu.Lock()
		if _, ok := b.watchers[id]; ok {
			delete(b.watchers, id)
			close(ch)
		}
		b.mu.Unlock()
	}()
	return ch
}

// publish never blocks; slow subscribers miss events.
func (b *broadcaster) publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// close ends every subscription; later subscribers get a closed channel.
func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for id, ch := range b.watchers {
		delete(b.watchers, id)
		close(ch)
	}
}
