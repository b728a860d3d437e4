package analytics

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/internal/validation"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const resource = "analytics"

// VisitInput is the POST /analytics/track body.
type VisitInput struct {
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent,omitempty"`
	PageVisited string `json:"page_visited"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// VisitorPage is one page of GET /analytics/visitors.
type VisitorPage struct {
	Data []domain.Visitor `json:"data"`
	Meta domain.PageMeta  `json:"meta"`
}

// Client wraps the analytics endpoints. With demo mode on, failures of
// Track, Stats, UniqueVisitors and Realtime are replaced by generated data.
type Client struct {
	remote *remote.Client
	logger interfaces.Logger
	demo   bool
	now    func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Client)

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithDemoMode(enabled bool) Option {
	return func(c *Client) { c.demo = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRand fixes the generator used for demo data.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func NewClient(rc *remote.Client, opts ...Option) *Client {
	c := &Client{
		remote: rc,
		logger: logging.NoOp(),
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) DemoMode() bool { return c.demo }

func (c *Client) Track(ctx context.Context, visit VisitInput) (domain.Visitor, error) {
	target, err := c.remote.Routes().Item(resource, "track", nil)
	if err != nil {
		return domain.Visitor{}, err
	}
	var visitor domain.Visitor
	err = c.envelope(ctx, http.MethodPost, target, remote.JSONPayload(visit), validation.ShapeEntity, &visitor)
	if err != nil {
		if c.demo {
			c.logger.WithContext(ctx).Warn("analytics.track.demo", "page", visit.PageVisited, "error", err)
			return c.demoVisit(visit), nil
		}
		return domain.Visitor{}, err
	}
	return visitor, nil
}

func (c *Client) Stats(ctx context.Context, period string) (domain.AnalyticsData, error) {
	if period == "" {
		period = "month"
	}
	target, err := c.remote.Routes().Item(resource, "stats", url.Values{"period": {period}})
	if err != nil {
		return domain.AnalyticsData{}, err
	}
	var data domain.AnalyticsData
	if err := c.envelope(ctx, http.MethodGet, target, nil, validation.ShapeAny, &data); err != nil {
		if c.demo {
			c.logger.WithContext(ctx).Warn("analytics.stats.demo", "period", period, "error", err)
			return c.demoStats(period), nil
		}
		return domain.AnalyticsData{}, err
	}
	return data, nil
}

// Visitors has no demo fallback.
func (c *Client) Visitors(ctx context.Context, page, limit int) (VisitorPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	target, err := c.remote.Routes().Item(resource, "visitors", url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	})
	if err != nil {
		return VisitorPage{}, err
	}
	var raw struct {
		Data json.RawMessage `json:"data"`
		Meta domain.PageMeta `json:"meta"`
	}
	if err := c.envelope(ctx, http.MethodGet, target, nil, validation.ShapeAny, &raw); err != nil {
		return VisitorPage{}, err
	}
	out := VisitorPage{Meta: raw.Meta}
	if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
		out.Data = nil
	}
	if out.Data == nil {
		out.Data = []domain.Visitor{}
	}
	return out, nil
}

// UniqueVisitors returns one visitor per IP. A data member that is not a
// list gives an empty result.
func (c *Client) UniqueVisitors(ctx context.Context) ([]domain.Visitor, error) {
	target, err := c.remote.Routes().Item(resource, "unique-visitors", nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.envelope(ctx, http.MethodGet, target, nil, validation.ShapeAny, &raw); err != nil {
		if c.demo {
			c.logger.WithContext(ctx).Warn("analytics.unique.demo", "error", err)
			return c.demoVisitors(), nil
		}
		return nil, err
	}
	var visitors []domain.Visitor
	if err := json.Unmarshal(raw, &visitors); err != nil || visitors == nil {
		return []domain.Visitor{}, nil
	}
	return visitors, nil
}

func (c *Client) Realtime(ctx context.Context) (domain.RealtimeStats, error) {
	target, err := c.remote.Routes().Item(resource, "realtime", nil)
	if err != nil {
		return domain.RealtimeStats{}, err
	}
	var stats domain.RealtimeStats
	if err := c.envelope(ctx, http.MethodGet, target, nil, validation.ShapeAny, &stats); err != nil {
		if c.demo {
			c.logger.WithContext(ctx).Warn("analytics.realtime.demo", "error", err)
			return c.demoRealtime(), nil
		}
		return domain.RealtimeStats{}, err
	}
	return stats, nil
}

// Clear deletes every recorded visit.
func (c *Client) Clear(ctx context.Context) error {
	target, err := c.remote.Routes().Item(resource, "clear", nil)
	if err != nil {
		return err
	}
	if err := c.remote.JSON(ctx, http.MethodDelete, target, nil, nil); err != nil {
		return err
	}
	c.logger.WithContext(ctx).Info("analytics.clear.success")
	return nil
}

func (c *Client) envelope(ctx context.Context, method, target string, payload *remote.Payload, shape validation.Shape, out any) error {
	env, err := c.remote.Envelope(ctx, method, target, payload, shape)
	if err != nil {
		return err
	}
	return remote.DecodeData(env, out)
}
