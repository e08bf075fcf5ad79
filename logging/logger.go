package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
	level  = new(slog.LevelVar)
)

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog level.
// Unknown names are INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init replaces the process logger with a text logger writing to w.
//
// Example:
//
//	logging.Init(slog.LevelDebug, os.Stderr)
//	logging.WithTable("people").Debug("Switched to table: people")
func Init(lvl slog.Level, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	level.Set(lvl)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel changes the level of the current logger in place.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// Logger returns the process logger, an INFO text logger on stderr until
// Init is called.
func Logger() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return logger
}

// WithTable returns a logger tagged with the table name.
func WithTable(name string) *slog.Logger {
	return Logger().With("table", name)
}

// WithComponent returns a logger tagged with a subsystem name.
func WithComponent(component string) *slog.Logger {
	return Logger().With("component", component)
}
