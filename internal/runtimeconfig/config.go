package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrAPIBaseURLRequired = errors.New("admin config: api base url is required")
var ErrAPIBaseURLInvalid = errors.New("admin config: api base url must be an absolute http(s) url")
var ErrAPITimeoutInvalid = errors.New("admin config: api timeout must be positive")

// ErrItemsPerPageInvalid guards the paginator against zero sized pages.
var ErrItemsPerPageInvalid = errors.New("admin config: items per page must be positive")
var ErrNotificationTTLInvalid = errors.New("admin config: notification ttl must be positive")
var ErrAnalyticsPeriodInvalid = errors.New("admin config: analytics period is invalid")
var ErrAnalyticsPollInvalid = errors.New("admin config: analytics poll interval must be positive")

// ErrVisitTrackingEndpointsRequired is returned when tracking is on without lookup endpoints.
var ErrVisitTrackingEndpointsRequired = errors.New("admin config: visit tracking requires ip and geo lookup urls")
var ErrStorageDriverUnknown = errors.New("admin config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("admin config: storage dsn is required for sql drivers")
var ErrLoggingProviderRequired = errors.New("admin config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("admin config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("admin config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("admin config: logging format is invalid")

// Config aggregates the settings of the admin client. Struct tags bind the
// YAML keys and environment variables read by Load.
type Config struct {
	API           APIConfig          `yaml:"api" env-prefix:"ADMIN_API_"`
	Listing       ListingConfig      `yaml:"listing" env-prefix:"ADMIN_LISTING_"`
	Notifications NotificationConfig `yaml:"notifications" env-prefix:"ADMIN_NOTIFY_"`
	Features      Features           `yaml:"features" env-prefix:"ADMIN_FEATURE_"`
	Analytics     AnalyticsConfig    `yaml:"analytics" env-prefix:"ADMIN_ANALYTICS_"`
	Storage       StorageConfig      `yaml:"storage" env-prefix:"ADMIN_STORAGE_"`
	Logging       LoggingConfig      `yaml:"logging" env-prefix:"ADMIN_LOG_"`
}

// APIConfig points the client at the remote REST API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT"`
}

type ListingConfig struct {
	ItemsPerPage int `yaml:"items_per_page" env:"ITEMS_PER_PAGE"`
}

type NotificationConfig struct {
	TTL time.Duration `yaml:"ttl" env:"TTL"`
}

// Features toggles optional behaviour. DemoMode enables the placeholder data
// fallbacks of the analytics and hero section screens and is off by default.
type Features struct {
	DemoMode      bool `yaml:"demo_mode" env:"DEMO_MODE"`
	VisitTracking bool `yaml:"visit_tracking" env:"VISIT_TRACKING"`
	Logger        bool `yaml:"logger" env:"LOGGER"`
}

// AnalyticsConfig drives the visit tracker and the overview poller.
type AnalyticsConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	DefaultPeriod    string        `yaml:"default_period" env:"DEFAULT_PERIOD"`
	TrackDelay       time.Duration `yaml:"track_delay" env:"TRACK_DELAY"`
	ExcludedPrefixes []string      `yaml:"excluded_prefixes" env:"EXCLUDED_PREFIXES" env-separator:","`
	IPLookupURL      string        `yaml:"ip_lookup_url" env:"IP_LOOKUP_URL"`
	// GeoLookupURL may contain an {ip} placeholder.
	GeoLookupURL   string `yaml:"geo_lookup_url" env:"GEO_LOOKUP_URL"`
	FingerprintKey string `yaml:"fingerprint_key" env:"FINGERPRINT_KEY"`
}

// StorageConfig selects the local store backing tokens and cached user data.
type StorageConfig struct {
	Driver   string        `yaml:"driver" env:"DRIVER"`
	DSN      string        `yaml:"dsn" env:"DSN"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
}

type LoggingConfig struct {
	Provider string `yaml:"provider" env:"PROVIDER"`
	Level    string `yaml:"level" env:"LEVEL"`
	Format   string `yaml:"format" env:"FORMAT"`
}

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Periods accepted by the analytics stats endpoint.
var Periods = []string{"today", "week", "month", "year"}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000/api",
			Timeout:   30 * time.Second,
			UserAgent: "go-cms-admin",
		},
		Listing: ListingConfig{
			ItemsPerPage: 8,
		},
		Notifications: NotificationConfig{
			TTL: 4 * time.Second,
		},
		Features: Features{
			VisitTracking: true,
		},
		Analytics: AnalyticsConfig{
			PollInterval:     30 * time.Second,
			DefaultPeriod:    "month",
			TrackDelay:       time.Second,
			ExcludedPrefixes: []string{"/dashboard"},
			IPLookupURL:      "https://api.ipify.org?format=json",
			GeoLookupURL:     "https://ipapi.co/{ip}/json/",
			FingerprintKey:   "go-cms-admin",
		},
		Storage: StorageConfig{
			Driver:   StorageMemory,
			CacheTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return ErrAPIBaseURLRequired
	}
	if parsed, err := url.Parse(base); err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: %s", ErrAPIBaseURLInvalid, base)
	}
	if cfg.API.Timeout <= 0 {
		return ErrAPITimeoutInvalid
	}
	if cfg.Listing.ItemsPerPage <= 0 {
		return ErrItemsPerPageInvalid
	}
	if cfg.Notifications.TTL <= 0 {
		return ErrNotificationTTLInvalid
	}
	if !isPeriod(cfg.Analytics.DefaultPeriod) {
		return fmt.Errorf("%w: %s", ErrAnalyticsPeriodInvalid, cfg.Analytics.DefaultPeriod)
	}
	if cfg.Analytics.PollInterval <= 0 {
		return ErrAnalyticsPollInvalid
	}
	if cfg.Features.VisitTracking {
		if strings.TrimSpace(cfg.Analytics.IPLookupURL) == "" || strings.TrimSpace(cfg.Analytics.GeoLookupURL) == "" {
			return ErrVisitTrackingEndpointsRequired
		}
	}
	switch driver := normalize(cfg.Storage.Driver); driver {
	case StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isPeriod(period string) bool {
	for _, candidate := range Periods {
		if normalize(period) == candidate {
			return true
		}
	}
	return false
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zerolog":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	switch provider {
	case "gologger":
		switch normalize(format) {
		case "json", "console", "pretty":
			return true
		}
	case "zerolog":
		switch normalize(format) {
		case "json", "console":
			return true
		}
	}
	return false
}
