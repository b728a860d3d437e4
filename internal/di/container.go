package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-admin/internal/analytics"
	"github.com/goliatone/go-cms-admin/internal/localstore"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/logging/console"
	"github.com/goliatone/go-cms-admin/internal/logging/gologger"
	"github.com/goliatone/go-cms-admin/internal/logging/zerolog"
	"github.com/goliatone/go-cms-admin/internal/markdown"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/internal/runtimeconfig"
	"github.com/goliatone/go-cms-admin/internal/screens"
	"github.com/goliatone/go-cms-admin/internal/session"
	"github.com/goliatone/go-cms-admin/internal/site"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Container wires every collaborator of the admin client from one Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	now            func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	sessionStore  session.Store

	notifier *notify.Channel
	client   *remote.Client
	session  *session.Session
	parser   *markdown.GoldmarkParser

	contacts     *screens.Contacts
	services     *screens.Services
	formations   *screens.Formations
	partners     *screens.Partners
	heroSections *screens.HeroSections
	articles     *screens.Articles

	analytics *analytics.Client
	tracker   *analytics.Tracker
	overview  *analytics.Overview
	site      *site.Site
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient replaces the transport of the API client and the tracker
// lookups.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Container) {
		c.httpClient = hc
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBunDB supplies the database of the local store. The container does
// not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the cache in front of the local store repository.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithSessionStore bypasses the configured storage driver.
func WithSessionStore(store session.Store) Option {
	return func(c *Container) {
		c.sessionStore = store
	}
}

// NewContainer validates cfg and builds the collaborators.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureSessionStore(); err != nil {
		return nil, err
	}

	c.notifier = notify.NewChannel(
		notify.WithTTL(cfg.Notifications.TTL),
		notify.WithClock(c.now),
	)

	c.session = session.New(nil, c.sessionStore, session.WithLogger(logging.SessionLogger(c.loggerProvider)))
	clientOpts := []remote.Option{
		remote.WithLogger(logging.RemoteLogger(c.loggerProvider)),
		remote.WithTokenSource(c.session.TokenSource()),
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithUserAgent(cfg.API.UserAgent),
		remote.WithClock(c.now),
	}
	if c.httpClient != nil {
		clientOpts = append(clientOpts, remote.WithHTTPClient(c.httpClient))
	}
	client, err := remote.NewClient(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		c.closeDB()
		return nil, err
	}
	c.client = client
	c.session.Bind(client)

	c.parser = markdown.NewGoldmarkParser(markdown.ParseOptions{})
	c.configureScreens()
	c.configureAnalytics()
	c.site = site.New(client,
		site.WithParser(c.parser),
		site.WithLogger(logging.ModuleLogger(c.loggerProvider, "admin.site")),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "console":
		level, _ := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: level, Now: c.now})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{Level: logCfg.Level, Format: logCfg.Format})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zerolog":
		provider, err := zerolog.NewProvider(zerolog.Config{Level: logCfg.Level, Format: logCfg.Format})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, logCfg.Provider)
	}
	return nil
}

func (c *Container) configureSessionStore() error {
	if c.sessionStore != nil {
		return nil
	}
	storage := c.Config.Storage
	if c.bunDB == nil && strings.EqualFold(strings.TrimSpace(storage.Driver), runtimeconfig.StorageMemory) {
		c.sessionStore = session.NewMemoryStore()
		return nil
	}
	if c.bunDB == nil {
		db, err := localstore.Open(storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := localstore.Migrate(context.Background(), c.bunDB); err != nil {
		c.closeDB()
		return err
	}
	if err := c.configureCacheDefaults(); err != nil {
		c.closeDB()
		return err
	}
	c.sessionStore = localstore.NewStore(c.bunDB,
		localstore.WithCache(c.cacheService, c.keySerializer),
		localstore.WithClock(c.now),
		localstore.WithLogger(logging.StoreLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if c.cacheService != nil && c.keySerializer != nil {
		return nil
	}
	ttl := c.Config.Storage.CacheTTL
	if ttl <= 0 {
		return nil
	}
	cfg := repocache.DefaultConfig()
	cfg.TTL = ttl
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		return fmt.Errorf("di: cache service: %w", err)
	}
	c.cacheService = service
	c.keySerializer = repocache.NewDefaultKeySerializer()
	return nil
}

func (c *Container) configureScreens() {
	deps := screens.Deps{
		Client:         c.client,
		Notifier:       c.notifier,
		LoggerProvider: c.loggerProvider,
		ItemsPerPage:   c.Config.Listing.ItemsPerPage,
		DemoMode:       c.Config.Features.DemoMode,
	}
	c.contacts = screens.NewContacts(deps)
	c.services = screens.NewServices(deps)
	c.formations = screens.NewFormations(deps)
	c.partners = screens.NewPartners(deps)
	c.heroSections = screens.NewHeroSections(deps)
	c.articles = screens.NewArticles(deps)
}

func (c *Container) configureAnalytics() {
	cfg := c.Config.Analytics
	logger := logging.AnalyticsLogger(c.loggerProvider)
	c.analytics = analytics.NewClient(c.client,
		analytics.WithLogger(logger),
		analytics.WithDemoMode(c.Config.Features.DemoMode),
		analytics.WithClock(c.now),
	)
	trackerOpts := []analytics.TrackerOption{analytics.WithTrackerLogger(logger)}
	if c.httpClient != nil {
		trackerOpts = append(trackerOpts, analytics.WithLookupClient(c.httpClient))
	}
	if c.Config.Features.VisitTracking {
		c.tracker = analytics.NewTracker(c.analytics, analytics.TrackerConfig{
			Delay:            cfg.TrackDelay,
			ExcludedPrefixes: cfg.ExcludedPrefixes,
			IPLookupURL:      cfg.IPLookupURL,
			GeoLookupURL:     cfg.GeoLookupURL,
			FingerprintKey:   cfg.FingerprintKey,
		}, trackerOpts...)
	}
	c.overview = analytics.NewOverview(c.analytics, c.notifier,
		analytics.WithOverviewLogger(logger),
		analytics.WithPollInterval(cfg.PollInterval),
		analytics.WithPeriod(strings.ToLower(strings.TrimSpace(cfg.DefaultPeriod))),
		analytics.WithOverviewClock(c.now),
	)
}

// Close stops timers and closes the database when the container opened it.
func (c *Container) Close() error {
	if c.tracker != nil {
		c.tracker.Close()
	}
	if c.notifier != nil {
		c.notifier.Close()
	}
	return c.closeDB()
}

func (c *Container) closeDB() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Notifications() *notify.Channel { return c.notifier }

func (c *Container) Client() *remote.Client { return c.client }

func (c *Container) Session() *session.Session { return c.session }

func (c *Container) SessionStore() session.Store { return c.sessionStore }

func (c *Container) Markdown() *markdown.GoldmarkParser { return c.parser }

func (c *Container) Contacts() *screens.Contacts { return c.contacts }

func (c *Container) Services() *screens.Services { return c.services }

func (c *Container) Formations() *screens.Formations { return c.formations }

func (c *Container) Partners() *screens.Partners { return c.partners }

func (c *Container) HeroSections() *screens.HeroSections { return c.heroSections }

func (c *Container) Articles() *screens.Articles { return c.articles }

func (c *Container) Analytics() *analytics.Client { return c.analytics }

// Tracker is nil when visit tracking is disabled.
func (c *Container) Tracker() *analytics.Tracker { return c.tracker }

func (c *Container) Overview() *analytics.Overview { return c.overview }

func (c *Container) Site() *site.Site { return c.site }
