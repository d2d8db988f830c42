// Package logsink adapts zap loggers to the effect.Logger contract.
package logsink

import (
	"os"

	"github.com/on-the-ground/effectdeps/effect"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log line.
type Level string

const (
	// LevelInfo is used for general informational messages.
	LevelInfo Level = "info"

	// LevelWarn is used for potentially harmful situations.
	LevelWarn Level = "warn"

	// LevelError is used for error events that might still allow the application to continue running.
	LevelError Level = "error"

	// LevelDebug is used for debugging messages with detailed internal information.
	LevelDebug Level = "debug"
)

var _ effect.Logger = Zap{}

// Zap is an effect.Logger backed by a zap logger.
// Details are passed as loosely typed key/value pairs, as with zap's sugared API.
type Zap struct {
	logger *zap.SugaredLogger
}

// NewZap wraps logger. A nil logger yields a no-op sink.
func NewZap(logger *zap.Logger) Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Zap{logger: logger.Sugar()}
}

// Log writes msg at level; unknown levels are logged as info.
func (z Zap) Log(level Level, msg string, details ...any) {
	switch level {
	case LevelInfo:
		z.logger.Infow(msg, details...)
	case LevelWarn:
		z.logger.Warnw(msg, details...)
	case LevelError:
		z.logger.Errorw(msg, details...)
	case LevelDebug:
		z.logger.Debugw(msg, details...)
	default:
		z.logger.Infow(msg, details...)
	}
}

func (z Zap) Info(msg string, details ...any)  { z.Log(LevelInfo, msg, details...) }
func (z Zap) Warn(msg string, details ...any)  { z.Log(LevelWarn, msg, details...) }
func (z Zap) Error(msg string, details ...any) { z.Log(LevelError, msg, details...) }
func (z Zap) Debug(msg string, details ...any) { z.Log(LevelDebug, msg, details...) }

// Sync flushes buffered entries.
func (z Zap) Sync() error {
	return z.logger.Sync()
}

// New builds a zap logger for the given level name. Development mode uses
// the console encoder; otherwise the production JSON encoder is used.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewTest returns a debug-level console logger writing to stdout.
func NewTest() *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.DebugLevel,
	)
	return zap.New(consoleCore)
}
