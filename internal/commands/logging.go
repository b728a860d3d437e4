package commands

import (
	"strings"

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// CommandLogger returns the commands logger tagged with the screen issuing
// them, e.g. "services".
func CommandLogger(provider interfaces.LoggerProvider, screen string) interfaces.Logger {
	name := strings.TrimSpace(screen)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_screen": name,
	})
}
