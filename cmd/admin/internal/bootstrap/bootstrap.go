package bootstrap

import (
	"fmt"
	"strings"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/di"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	ConfigPath     string
	BaseURL        string
	DemoMode       *bool
	LoggerProvider interfaces.LoggerProvider
	DIOptions      []di.Option
}

// BuildModule loads the configuration and constructs the admin module.
// Flags given in opts win over the file and environment.
func BuildModule(opts Options) (*admin.Module, error) {
	cfg, err := admin.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.API.BaseURL = base
	}
	if opts.DemoMode != nil {
		cfg.Features.DemoMode = *opts.DemoMode
	}
	// The CLI never serves pages, so there is nothing to track.
	cfg.Features.VisitTracking = false

	diOpts := append([]di.Option{}, opts.DIOptions...)
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := admin.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise admin module: %w", err)
	}
	return module, nil
}
