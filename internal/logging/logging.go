// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures the logger.
type Options struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer
	// Prefix is the component name prefix
	Prefix string
	// JSON switches to machine-readable output
	JSON bool
}

// parseLevel converts a string level to log.Level.
func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a charmbracelet logger with the given options.
func New(opts Options) *log.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	logger := log.NewWithOptions(opts.Output, log.Options{
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	})
	if opts.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Setup installs a charmbracelet-backed handler as the slog default, so
// packages log through the standard slog API.
func Setup(opts Options) *slog.Logger {
	logger := slog.New(New(opts))
	slog.SetDefault(logger)
	return logger
}
