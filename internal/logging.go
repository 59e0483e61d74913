package internal

import (
	"log/slog"
	"os"
	"strings"
)

// LoggerFromString builds a text slog.Logger whose level is parsed from
// the LOG_LEVEL configuration value. Unknown values fall back to INFO.
func LoggerFromString(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		l = slog.LevelDebug
	case "WARN":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
