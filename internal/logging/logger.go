// Package logging configures the structured logger vbl reports startup
// problems and scan outcomes through.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Process-wide logger is intentional for convenience
var (
	defaultLogger *log.Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide logger. It writes to stderr, which
// Bubble Tea leaves alone while the alternate screen is active.
func Default() *log.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// New creates a logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})

	applyLevel(logger, level)

	return logger
}

// SetLevel updates the log level of the process-wide logger, e.g. when
// --debug is given.
func SetLevel(level string) {
	applyLevel(Default(), level)
}

func applyLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}
