package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "admin.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestScreensLoggerTagsModuleAndScreen(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ScreensLogger(provider, "contacts")

	if len(provider.requested) != 1 || provider.requested[0] != screensModule {
		t.Fatalf("expected %s to be requested, got %v", screensModule, provider.requested)
	}
	if len(rec.fields) != 2 {
		t.Fatalf("expected module and screen fields, got %v", rec.fields)
	}
	if rec.fields[0]["module"] != screensModule {
		t.Fatalf("unexpected module field %v", rec.fields[0])
	}
	if rec.fields[1]["screen"] != "contacts" {
		t.Fatalf("unexpected screen field %v", rec.fields[1])
	}
}

func TestWithEntitySkipsUnknownID(t *testing.T) {
	rec := &recordingLogger{}
	WithEntity(rec, "services", 0)
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0][fieldEntityID]; ok {
		t.Fatalf("entity_id should be omitted for id 0: %v", rec.fields[0])
	}
	if rec.fields[0][fieldResource] != "services" {
		t.Fatalf("resource missing: %v", rec.fields[0])
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"screen": "services"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["screen"] != "services" {
		t.Fatalf("unexpected context fields %v", fields)
	}
	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatal("ContextFields must return a copy")
	}
}
