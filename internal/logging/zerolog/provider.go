// Package zerolog adapts github.com/rs/zerolog to the admin logging contract.
package zerolog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type Config struct {
	Level  string
	Format string
	Writer io.Writer
}

type Provider struct {
	root zerolog.Logger
}

func NewProvider(cfg Config) (*Provider, error) {
	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		out = zerolog.SyncWriter(out)
	case "console", "pretty":
		out = zerolog.ConsoleWriter{Out: out}
	default:
		return nil, fmt.Errorf("zerolog: unsupported format %q", cfg.Format)
	}

	level := zerolog.InfoLevel
	if name := strings.TrimSpace(cfg.Level); name != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("zerolog: %w", err)
		}
		level = parsed
	}

	root := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Provider{root: root}, nil
}

func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	logger := p.root
	if name = strings.TrimSpace(name); name != "" {
		logger = logger.With().Str("logger", name).Logger()
	}
	return &adapter{zl: logger}
}

type adapter struct {
	zl  zerolog.Logger
	ctx context.Context
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (a *adapter) Trace(msg string, args ...any) { a.emit(a.zl.Trace(), msg, args) }
func (a *adapter) Debug(msg string, args ...any) { a.emit(a.zl.Debug(), msg, args) }
func (a *adapter) Info(msg string, args ...any)  { a.emit(a.zl.Info(), msg, args) }
func (a *adapter) Warn(msg string, args ...any)  { a.emit(a.zl.Warn(), msg, args) }
func (a *adapter) Error(msg string, args ...any) { a.emit(a.zl.Error(), msg, args) }

// Fatal logs at fatal level without terminating the process.
func (a *adapter) Fatal(msg string, args ...any) {
	a.emit(a.zl.WithLevel(zerolog.FatalLevel), msg, args)
}

func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	return &adapter{zl: a.zl.With().Fields(fields).Logger(), ctx: a.ctx}
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return &adapter{zl: a.zl, ctx: ctx}
}

func (a *adapter) emit(event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}
	if fields := logging.ContextFields(a.ctx); len(fields) > 0 {
		event = event.Fields(fields)
	}
	if len(args) > 0 {
		event = event.Fields(args)
	}
	event.Msg(msg)
}
