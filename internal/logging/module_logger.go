package logging

import (
	"context"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

const (
	rootModule      = "admin"
	remoteModule    = "admin.remote"
	screensModule   = "admin.screens"
	sessionModule   = "admin.session"
	analyticsModule = "admin.analytics"
	storeModule     = "admin.localstore"
	commandsModule  = "admin.commands"
)

const (
	fieldMethod   = "method"
	fieldPath     = "path"
	fieldResource = "resource"
	fieldEntityID = "entity_id"
)

// ModuleLogger resolves a named logger from the provider and tags it with the
// module name. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// RemoteLogger is used by the REST client.
func RemoteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, remoteModule)
}

// ScreensLogger is used by the admin screens.
func ScreensLogger(provider interfaces.LoggerProvider, screen string) interfaces.Logger {
	logger := ModuleLogger(provider, screensModule)
	if screen == "" {
		return logger
	}
	return WithFields(logger, map[string]any{"screen": screen})
}

// SessionLogger is used by login, logout and user cache handling.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// AnalyticsLogger is used by the analytics client, tracker and overview.
func AnalyticsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, analyticsModule)
}

// StoreLogger is used by the local store.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }

// CommandsLogger is used by the command handlers wrapping every mutation.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}
