package analytics

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/reconcile"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	defaultPollInterval = 30 * time.Second
	messageLoadFailed   = "Erreur lors du chargement des statistiques"
	messageCleared      = "Données analytics supprimées"
	messageClearFailed  = "Erreur lors de la suppression des analytics"
)

// Snapshot is what the overview dashboard shows.
type Snapshot struct {
	Period    string
	Stats     domain.AnalyticsData
	Realtime  domain.RealtimeStats
	Unique    []domain.Visitor
	UpdatedAt time.Time
}

// Overview keeps the dashboard numbers fresh.
type Overview struct {
	client   *Client
	notifier notify.Notifier
	logger   interfaces.Logger
	interval time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	period   string
	snapshot Snapshot
}

type OverviewOption func(*Overview)

func WithOverviewLogger(logger interfaces.Logger) OverviewOption {
	return func(o *Overview) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithPollInterval(interval time.Duration) OverviewOption {
	return func(o *Overview) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

func WithPeriod(period string) OverviewOption {
	return func(o *Overview) {
		if period != "" {
			o.period = period
		}
	}
}

func WithOverviewClock(now func() time.Time) OverviewOption {
	return func(o *Overview) {
		if now != nil {
			o.now = now
		}
	}
}

func NewOverview(client *Client, notifier notify.Notifier, opts ...OverviewOption) *Overview {
	o := &Overview{
		client:   client,
		notifier: notifier,
		logger:   logging.NoOp(),
		interval: defaultPollInterval,
		now:      time.Now,
		period:   "month",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *Overview) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	snap := o.snapshot
	snap.Unique = append([]domain.Visitor(nil), o.snapshot.Unique...)
	return snap
}

// SetPeriod changes the stats period and refreshes.
func (o *Overview) SetPeriod(ctx context.Context, period string) error {
	o.mu.Lock()
	o.period = period
	o.mu.Unlock()
	return o.Refresh(ctx)
}

// Refresh fetches stats, realtime and unique visitors concurrently. The
// snapshot is only replaced when all three succeed.
func (o *Overview) Refresh(ctx context.Context) error {
	o.mu.RLock()
	period := o.period
	o.mu.RUnlock()

	var (
		stats    domain.AnalyticsData
		realtime domain.RealtimeStats
		unique   []domain.Visitor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = o.client.Stats(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		realtime, err = o.client.Realtime(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unique, err = o.client.UniqueVisitors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		o.fail(ctx, "analytics.overview.refresh_failed", err)
		return err
	}

	o.mu.Lock()
	o.snapshot = Snapshot{
		Period:    period,
		Stats:     stats,
		Realtime:  realtime,
		Unique:    unique,
		UpdatedAt: o.now(),
	}
	o.mu.Unlock()
	o.logger.WithContext(ctx).Debug("analytics.overview.refreshed", "period", period)
	return nil
}

// PollRealtime refreshes only the realtime block.
func (o *Overview) PollRealtime(ctx context.Context) error {
	realtime, err := o.client.Realtime(ctx)
	if err != nil {
		o.fail(ctx, "analytics.overview.poll_failed", err)
		return err
	}
	o.mu.Lock()
	o.snapshot.Realtime = realtime
	o.snapshot.UpdatedAt = o.now()
	o.mu.Unlock()
	return nil
}

// Run refreshes once then polls realtime stats on every tick until ctx is
// done. Failures are notified and polling continues.
func (o *Overview) Run(ctx context.Context) error {
	_ = o.Refresh(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = o.PollRealtime(ctx)
		}
	}
}

// Clear removes every recorded visit and refreshes.
func (o *Overview) Clear(ctx context.Context) error {
	if err := o.client.Clear(ctx); err != nil {
		o.logger.WithContext(ctx).Error("analytics.overview.clear_failed", "error", err)
		o.notify(reconcile.MessageOr(err, messageClearFailed), notify.KindError)
		return err
	}
	o.notify(messageCleared, notify.KindSuccess)
	return o.Refresh(ctx)
}

func (o *Overview) fail(ctx context.Context, event string, err error) {
	if ctx.Err() != nil {
		return
	}
	o.logger.WithContext(ctx).Error(event, "error", err)
	o.notify(reconcile.MessageOr(err, messageLoadFailed), notify.KindError)
}

func (o *Overview) notify(message string, kind notify.Kind) {
	if o.notifier != nil {
		o.notifier.Notify(message, kind)
	}
}
