// Package logging wraps zap's sugared logger for the CLI and the batch runner.
// Logs always go to stderr so that command output on stdout stays clean.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
}

// NewLogger builds a console logger at info level, or debug when verbose.
func NewLogger(verbose bool) *Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	logger, err := New(Options{Level: level, Format: "console"})
	if err != nil {
		return NewNop()
	}
	return logger
}

// New constructs a logger from opts. Format is "console" or "json".
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = level > zapcore.DebugLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return FromZap(base), nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", level)
	}
}

func FromZap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar()}
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(kv ...any) *Logger {
	if l == nil {
		return NewNop().With(kv...)
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}
