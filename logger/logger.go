package logger

import (
	"log/slog"
	"os"
)

// Init installs the default slog logger: human-readable text at debug level
// for development, JSON at info level for production.
func Init(env string, debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if debug || env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
