package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// WithFields attaches fields when the logger supports FieldsLogger and
// returns it untouched otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithRequest annotates a logger with the method and path of a remote call.
func WithRequest(logger interfaces.Logger, method, path string) interfaces.Logger {
	fields := map[string]any{}
	if m := strings.TrimSpace(method); m != "" {
		fields[fieldMethod] = strings.ToUpper(m)
	}
	if p := strings.TrimSpace(path); p != "" {
		fields[fieldPath] = p
	}
	return WithFields(logger, fields)
}

// WithEntity annotates a logger with the managed resource and, when known,
// the entity id.
func WithEntity(logger interfaces.Logger, resource string, id int) interfaces.Logger {
	fields := map[string]any{}
	if r := strings.TrimSpace(resource); r != "" {
		fields[fieldResource] = r
	}
	if id > 0 {
		fields[fieldEntityID] = id
	}
	return WithFields(logger, fields)
}
