// Package logs sets up the console logger.
package logs

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// ConsoleLogger returns a colorized logger writing to w and installs it as
// the slog default. Debug output is only enabled when verbose is set.
func ConsoleLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return logger
}
