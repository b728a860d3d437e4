package admin

import "github.com/goliatone/go-cms-admin/internal/runtimeconfig"

var (
	ErrAPIBaseURLRequired             = runtimeconfig.ErrAPIBaseURLRequired
	ErrAPIBaseURLInvalid              = runtimeconfig.ErrAPIBaseURLInvalid
	ErrAPITimeoutInvalid              = runtimeconfig.ErrAPITimeoutInvalid
	ErrItemsPerPageInvalid            = runtimeconfig.ErrItemsPerPageInvalid
	ErrNotificationTTLInvalid         = runtimeconfig.ErrNotificationTTLInvalid
	ErrAnalyticsPeriodInvalid         = runtimeconfig.ErrAnalyticsPeriodInvalid
	ErrAnalyticsPollInvalid           = runtimeconfig.ErrAnalyticsPollInvalid
	ErrVisitTrackingEndpointsRequired = runtimeconfig.ErrVisitTrackingEndpointsRequired
	ErrStorageDriverUnknown           = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired             = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config             = runtimeconfig.Config
	APIConfig          = runtimeconfig.APIConfig
	ListingConfig      = runtimeconfig.ListingConfig
	NotificationConfig = runtimeconfig.NotificationConfig
	Features           = runtimeconfig.Features
	AnalyticsConfig    = runtimeconfig.AnalyticsConfig
	StorageConfig      = runtimeconfig.StorageConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file, overlays ADMIN_* environment variables and
// validates the result. An empty path reads the environment only.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
