package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/identity"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	fallbackIP          = "127.0.0.1"
	defaultTrackDelay   = time.Second
	lookupTimeout       = 5 * time.Second
	ipPlaceholder       = "{ip}"
	maxLookupBodyLength = 64 << 10
)

// TrackerConfig mirrors runtimeconfig.AnalyticsConfig.
type TrackerConfig struct {
	Delay            time.Duration
	ExcludedPrefixes []string
	IPLookupURL      string
	GeoLookupURL     string
	FingerprintKey   string
}

// Location is what the geo lookup knows about an address.
type Location struct {
	Country string `json:"country_name"`
	City    string `json:"city"`
}

// TrackResult reports the outcome of one delayed track.
type TrackResult struct {
	Path    string
	Visitor domain.Visitor
	Err     error
}

// Tracker records public page visits. Visits are delayed and only the last
// visit of a path within the delay is sent.
type Tracker struct {
	client     *Client
	httpClient *http.Client
	cfg        TrackerConfig
	logger     interfaces.Logger
	onTracked  func(TrackResult)

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

type TrackerOption func(*Tracker)

func WithTrackerLogger(logger interfaces.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func WithLookupClient(hc *http.Client) TrackerOption {
	return func(t *Tracker) {
		if hc != nil {
			t.httpClient = hc
		}
	}
}

// WithOnTracked observes every delayed track once it completed.
func WithOnTracked(fn func(TrackResult)) TrackerOption {
	return func(t *Tracker) { t.onTracked = fn }
}

func NewTracker(client *Client, cfg TrackerConfig, opts ...TrackerOption) *Tracker {
	if cfg.Delay <= 0 {
		cfg.Delay = defaultTrackDelay
	}
	t := &Tracker{
		client:     client,
		httpClient: &http.Client{Timeout: lookupTimeout},
		cfg:        cfg,
		logger:     logging.NoOp(),
		pending:    map[string]*time.Timer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Excluded reports whether path belongs to the admin area.
func (t *Tracker) Excluded(path string) bool {
	for _, prefix := range t.cfg.ExcludedPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Visit schedules a track of path after the configured delay. A second
// visit of the same path before the delay fires replaces the first.
// Returns false when the path is excluded or the tracker is closed. The
// track keeps the values of ctx but not its cancellation; Close drops it.
func (t *Tracker) Visit(ctx context.Context, path, userAgent string) bool {
	if t.Excluded(path) {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	if timer, ok := t.pending[path]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(t.cfg.Delay, func() {
		t.mu.Lock()
		if t.pending[path] != timer {
			t.mu.Unlock()
			return
		}
		delete(t.pending, path)
		t.mu.Unlock()

		visitor, err := t.Track(ctx, path, userAgent)
		if t.onTracked != nil {
			t.onTracked(TrackResult{Path: path, Visitor: visitor, Err: err})
		}
	})
	t.pending[path] = timer
	return true
}

// Pending counts scheduled tracks.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Close drops every scheduled track.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for path, timer := range t.pending {
		timer.Stop()
		delete(t.pending, path)
	}
}

// Track resolves the client address and location and records the visit now.
func (t *Tracker) Track(ctx context.Context, path, userAgent string) (domain.Visitor, error) {
	logger := t.logger.WithContext(ctx)
	ip := t.ClientIP(ctx)
	loc := t.Locate(ctx, ip)
	visit := VisitInput{
		IPAddress:   ip,
		UserAgent:   userAgent,
		PageVisited: path,
		Country:     loc.Country,
		City:        loc.City,
		Fingerprint: identity.VisitorFingerprint(t.cfg.FingerprintKey, userAgent, ip),
	}
	visitor, err := t.client.Track(ctx, visit)
	if err != nil {
		logger.Warn("analytics.track.failed", "page", path, "error", err)
		return domain.Visitor{}, err
	}
	logger.Debug("analytics.track.success", "page", path, "ip", ip, "country", loc.Country)
	return visitor, nil
}

// ClientIP asks the ip lookup service for the public address, falling back
// to 127.0.0.1.
func (t *Tracker) ClientIP(ctx context.Context) string {
	if t.cfg.IPLookupURL == "" {
		return fallbackIP
	}
	var out struct {
		IP string `json:"ip"`
	}
	if err := t.lookup(ctx, t.cfg.IPLookupURL, &out); err != nil || strings.TrimSpace(out.IP) == "" {
		t.logger.WithContext(ctx).Debug("analytics.ip_lookup.fallback", "error", err)
		return fallbackIP
	}
	return strings.TrimSpace(out.IP)
}

// Locate resolves country and city for ip. Failures give an empty Location.
func (t *Tracker) Locate(ctx context.Context, ip string) Location {
	if t.cfg.GeoLookupURL == "" {
		return Location{}
	}
	target := t.cfg.GeoLookupURL
	if strings.Contains(target, ipPlaceholder) {
		target = strings.ReplaceAll(target, ipPlaceholder, ip)
	} else {
		target = strings.TrimRight(target, "/") + "/" + ip + "/json/"
	}
	var loc Location
	if err := t.lookup(ctx, target, &loc); err != nil {
		t.logger.WithContext(ctx).Debug("analytics.geo_lookup.fallback", "ip", ip, "error", err)
		return Location{}
	}
	return loc
}

func (t *Tracker) lookup(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("analytics: lookup status %d", res.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(res.Body, maxLookupBodyLength)).Decode(out)
}
