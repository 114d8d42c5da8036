// Package logger provides structured logging for the github-to-linear CLI,
// backed by zap and configured from environment variables.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// ErrorLevel logs only errors
	ErrorLevel
)

// Logger provides structured logging with timestamps
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

var (
	globalLogger *Logger
	globalMu     sync.Mutex
)

func init() {
	globalLogger = NewFromEnv()
}

// New creates a new logger with the specified level. Console (development)
// encoding is used unless jsonFormat is set.
func New(level Level, jsonFormat bool) *Logger {
	var config zap.Config

	if jsonFormat {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	}

	switch level {
	case DebugLevel:
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case ErrorLevel:
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Diagnostics go to stderr so stdout stays clean for command output.
	config.OutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Config above is static; Build only fails on invalid output paths.
		zl = zap.NewNop()
	}

	return &Logger{zap: zl, sugar: zl.Sugar()}
}

// NewFromEnv creates a logger configured from GH2LINEAR_LOG_LEVEL and
// GH2LINEAR_LOG_FORMAT. Defaults to info-level console output.
func NewFromEnv() *Logger {
	levelStr := os.Getenv("GH2LINEAR_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	jsonFormat := os.Getenv("GH2LINEAR_LOG_FORMAT") == "json"
	return New(LevelFromString(levelStr), jsonFormat)
}

// WithField returns a logger with an additional field in its context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	zl := l.zap.With(zap.Any(key, value))
	return &Logger{zap: zl, sugar: zl.Sugar()}
}

// WithFields returns a logger with additional fields in its context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	zl := l.zap.With(zapFields...)
	return &Logger{zap: zl, sugar: zl.Sugar()}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) { l.sugar.Debug(msg) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs an info message
func (l *Logger) Info(msg string) { l.sugar.Info(msg) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.sugar.Warn(msg) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs an error message
func (l *Logger) Error(msg string) { l.sugar.Error(msg) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger
}

// SetLogger sets the global logger instance
func SetLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// LevelFromString converts a string to a log level
func LevelFromString(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// NewTestLogger creates a logger that discards all output
func NewTestLogger() *Logger {
	zl := zap.NewNop()
	return &Logger{zap: zl, sugar: zl.Sugar()}
}
