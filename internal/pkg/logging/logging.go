// Package logging configures the process-wide slog default shared by the
// API, the migrator and the seeder.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global slog default logger.
// level may be "debug", "info", "warn", or "error" (default "info");
// format may be "json" or "text" (default "json", text is for local runs).
func Setup(level, format string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
