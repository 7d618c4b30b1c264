package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// setupLogger installs a tint handler on stderr as the default logger.
// The engine's operator-visible diagnostics all flow through it.
func setupLogger(level string) {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      parseLevel(level),
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
			TimeFormat: "2006-01-02 15:04:05.000",
		}),
	)
	slog.SetDefault(logger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
