package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(err error, msg string, fields ...any)
	Error(err error, msg string, fields ...any)

	With(fields ...any) Logger
	WithComponent(component string) Logger
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	Component string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// AssetLogger implements Logger on top of slog
type AssetLogger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) *AssetLogger {
	if config == nil {
		config = DefaultConfig()
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	if config.Component != "" {
		logger = logger.With("component", config.Component)
	}

	return &AssetLogger{logger: logger}
}

// Discard returns a logger that drops everything, for tests and library use
func Discard() *AssetLogger {
	return NewLogger(&LoggerConfig{Level: LevelError, Output: io.Discard})
}

// Debug logs a debug message
func (l *AssetLogger) Debug(msg string, fields ...any) {
	l.logger.Debug(msg, fields...)
}

// Info logs an info message
func (l *AssetLogger) Info(msg string, fields ...any) {
	l.logger.Info(msg, fields...)
}

// Warn logs a warning message
func (l *AssetLogger) Warn(err error, msg string, fields ...any) {
	l.logger.Warn(msg, withError(err, fields)...)
}

// Error logs an error message
func (l *AssetLogger) Error(err error, msg string, fields ...any) {
	l.logger.Error(msg, withError(err, fields)...)
}

// With returns a logger with additional fields
func (l *AssetLogger) With(fields ...any) Logger {
	return &AssetLogger{logger: l.logger.With(fields...)}
}

// WithComponent returns a logger tagged with a component name
func (l *AssetLogger) WithComponent(component string) Logger {
	return l.With("component", component)
}

func withError(err error, fields []any) []any {
	if err == nil {
		return fields
	}

	return append([]any{"error", err.Error()}, fields...)
}

// ParseLevel converts a level name into a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
