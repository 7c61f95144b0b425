// Package logger wraps charmbracelet/log with the level names used in
// configuration files and a process-wide default logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is the structured logger used across the module.
type Logger = *log.Logger

var (
	mu     sync.Mutex
	global Logger
)

// Init replaces the process-wide logger.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	global = New(level)
}

// L returns the process-wide logger, creating an info-level one on first use.
func L() Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = New("info")
	}
	return global
}

// New returns a timestamped logger writing to stderr.
func New(level string) Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a timestamped logger writing to w.
func NewWithWriter(w io.Writer, level string) Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps debug, warn and error to their levels; anything else is
// info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything, for tests and library
// callers that do not want output.
func Discard() Logger {
	return NewWithWriter(io.Discard, "error")
}
