package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTTL is how long a notification stays queued.
const DefaultTTL = 4 * time.Second

type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, fn func()) Timer

// Notifier is the write side used by reconcilers and screens.
type Notifier interface {
	Notify(message string, kind Kind) Notification
}

// Channel is an ordered queue of transient messages, each dismissed on its
// own timer.
type Channel struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	schedule Scheduler
	newID    func() string
	queue    []Notification
	timers   map[string]Timer
	closed   bool
	events   *broadcaster
}

type Option func(*Channel)

func WithTTL(ttl time.Duration) Option {
	return func(c *Channel) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		if now != nil {
			c.now = now
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Channel) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithIDGenerator replaces the uuid based id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Channel) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		ttl: DefaultTTL,
		now: time.Now,
		schedule: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
		newID:  uuid.NewString,
		timers: map[string]Timer{},
		events: newBroadcaster(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// TTL reports the dismissal delay.
func (c *Channel) TTL() time.Duration { return c.ttl }

// Notify appends a message. Identical messages are not merged. After Close
// the notification is returned but not queued.
func (c *Channel) Notify(message string, kind Kind) Notification {
	if kind == "" {
		kind = KindInfo
	}
	n := Notification{
		ID:        c.newID(),
		Message:   message,
		Kind:      kind,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.queue = append(c.queue, n)
	c.timers[n.ID] = c.schedule(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	c.events.publish(Event{Type: EventAdded, Notification: n})
	return n
}

func (c *Channel) Success(message string) Notification { return c.Notify(message, KindSuccess) }
func (c *Channel) Error(message string) Notification   { return c.Notify(message, KindError) }
func (c *Channel) Info(message string) Notification    { return c.Notify(message, KindInfo) }

// Dismiss removes a notification ahead of its timer. It reports whether the
// id was still queued.
func (c *Channel) Dismiss(id string) bool {
	c.mu.Lock()
	idx := slices.IndexFunc(c.queue, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.queue[idx]
	c.queue = slices.Delete(c.queue, idx, idx+1)
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.events.publish(Event{Type: EventDismissed, Notification: removed})
	return true
}

// Snapshot returns the queued notifications in insertion order.
func (c *Channel) Snapshot() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

// Subscribe streams queue changes until ctx is cancelled or the channel is
// closed.
func (c *Channel) Subscribe(ctx context.Context) <-chan Event {
	return c.events.subscribe(ctx)
}

// Close stops every pending timer and ends subscriptions.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()
	c.events.close()
}
