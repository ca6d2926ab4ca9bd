package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/davidroman0O/usersettings/store"
)

// SlogLogger adapts a *slog.Logger to store.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

var _ store.Logger = (*SlogLogger)(nil)

// New wraps logger.
func New(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewHandlerLogger builds a text or json slog logger writing to w at level.
func NewHandlerLogger(w io.Writer, format, level string) (*SlogLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return New(slog.New(handler)), nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}

// Debug implements store.Logger.
func (l *SlogLogger) Debug(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Info implements store.Logger.
func (l *SlogLogger) Info(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Warn implements store.Logger.
func (l *SlogLogger) Warn(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

// Error implements store.Logger.
func (l *SlogLogger) Error(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
