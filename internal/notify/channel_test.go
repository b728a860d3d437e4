package notify_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cms-admin/internal/notify"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) notify.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.pending = append(c.pending, timer)
	return timer
}

// Advance moves the clock and runs due timers outside the lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, timer := range c.pending {
		if !timer.stopped && !timer.fired && !timer.at.After(c.now) {
			timer.fired = true
			due = append(due, timer)
		}
	}
	c.mu.Unlock()
	for _, timer := range due {
		timer.fn()
	}
}

func newChannel(clock *fakeClock) *notify.Channel {
	seq := 0
	return notify.NewChannel(
		notify.WithClock(clock.Now),
		notify.WithScheduler(clock.AfterFunc),
		notify.WithIDGenerator(func() string {
			seq++
			return "n" + strconv.Itoa(seq)
		}),
	)
}

func TestNotificationPresentBeforeTTLAndGoneAfter(t *testing.T) {
	clock := newFakeClock()
	ch := newChannel(clock)

	n := ch.Error("Erreur lors du chargement des services")
	if n.Kind != notify.KindError || n.CreatedAt != clock.Now() {
		t.Fatalf("unexpected notification %+v", n)
	}

	clock.Advance(time.Millisecond)
	if len(ch.Snapshot()) != 1 {
		t.Fatal("notification should be queued shortly after insertion")
	}

	clock.Advance(notify.DefaultTTL)
	if len(ch.Snapshot()) != 0 {
		t.Fatalf("notification should be dismissed after the ttl, got %+v", ch.Snapshot())
	}
}

func TestTimersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	ch := newChannel(clock)

	ch.Success("Service créé")
	clock.Advance(2 * time.Second)
	ch.Success("Service créé")

	snapshot := ch.Snapshot()
	if len(snapshot) != 2 || snapshot[0].ID == snapshot[1].ID {
		t.Fatalf("duplicate messages must stay separate: %+v", snapshot)
	}

	clock.Advance(2 * time.Second)
	snapshot = ch.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != "n2" {
		t.Fatalf("only the first message should have expired: %+v", snapshot)
	}

	clock.Advance(2 * time.Second)
	if len(ch.Snapshot()) != 0 {
		t.Fatal("second message should have expired")
	}
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	ch := newChannel(newFakeClock())
	ch.Info("a")
	ch.Error("b")
	ch.Success("c")

	var got string
	for _, n := range ch.Snapshot() {
		got += n.Message
	}
	if got != "abc" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestDismissEarlyStopsTimer(t *testing.T) {
	clock := newFakeClock()
	ch := newChannel(clock)

	n := ch.Info("bonjour")
	if !ch.Dismiss(n.ID) {
		t.Fatal("expected dismiss to succeed")
	}
	if ch.Dismiss(n.ID) {
		t.Fatal("second dismiss should report false")
	}
	clock.Advance(time.Minute)
	if len(ch.Snapshot()) != 0 {
		t.Fatal("queue should be empty")
	}
}

func TestSubscribeReceivesAddAndDismiss(t *testing.T) {
	clock := newFakeClock()
	ch := newChannel(clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := ch.Subscribe(ctx)

	n := ch.Success("ok")
	clock.Advance(notify.DefaultTTL)

	first := <-events
	second := <-events
	if first.Type != notify.EventAdded || first.Notification.ID != n.ID {
		t.Fatalf("unexpected first event %+v", first)
	}
	if second.Type != notify.EventDismissed || second.Notification.ID != n.ID {
		t.Fatalf("unexpected second event %+v", second)
	}
}

func TestCloseStopsTimersAndSubscriptions(t *testing.T) {
	clock := newFakeClock()
	ch := newChannel(clock)
	events := ch.Subscribe(context.Background())

	ch.Info("pending")
	<-events
	ch.Close()

	if _, ok := <-events; ok {
		t.Fatal("subscription should be closed")
	}
	ch.Info("after close")
	if len(ch.Snapshot()) != 1 {
		t.Fatalf("closed channel must not queue new messages: %+v", ch.Snapshot())
	}
}

func TestSubscribeAfterCloseIsClosed(t *testing.T) {
	ch := newChannel(newFakeClock())
	ch.Close()
	ch.Close()

	events := ch.Subscribe(context.Background())
	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected closed subscription")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription after close was never closed")
	}
}

func TestCloseReleasesLiveSubscriptions(t *testing.T) {
	ch := newChannel(newFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := ch.Subscribe(ctx)
	second := ch.Subscribe(ctx)

	ch.Close()
	for _, events := range []<-chan notify.Event{first, second} {
		select {
		case _, ok := <-events:
			if ok {
				t.Fatal("expected closed subscription")
			}
		case <-time.After(time.Second):
			t.Fatal("subscription left open after close")
		}
	}
}

func TestDefaultKindIsInfo(t *testing.T) {
	ch := newChannel(newFakeClock())
	if n := ch.Notify("x", ""); n.Kind != notify.KindInfo {
		t.Fatalf("expected info kind, got %q", n.Kind)
	}
}
