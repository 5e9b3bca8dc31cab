// Package logging builds the zap loggers used by the picker binary.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap.Logger configured for JSON output to the given file.
// The TUI owns the terminal, so logs never go to stdout or stderr.
//
// Log level usage conventions:
//   - error: backend unreachable, unhandled panics
//   - warn:  non-2xx responses, retried requests
//   - info:  picker start/stop, backend wiring, selection
//   - debug: cache operations, stale-response discards, key changes
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(lvl),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{file},
		ErrorOutputPaths: []string{file},
	}

	return zapCfg.Build()
}
