// Package logging builds the zap loggers used by the tgfmt commands.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

// NewLogger logs human-readable lines to stderr, at debug level when verbose
// and warnings only otherwise.
func NewLogger(verbose bool) *Logger {
	return newLogger(consoleEncoder(), zapcore.Lock(os.Stderr), level(verbose))
}

// NewJSONLogger logs one JSON object per line to stderr.
func NewJSONLogger(verbose bool) *Logger {
	return newLogger(jsonEncoder(), zapcore.Lock(os.Stderr), level(verbose))
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func newLogger(enc zapcore.Encoder, out zapcore.WriteSyncer, lvl zapcore.Level) *Logger {
	core := zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(lvl))
	return &Logger{zap.New(core).Sugar()}
}

func level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	return zapcore.NewConsoleEncoder(cfg)
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
