package main

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the diagnostics sink handed to the control package.
// Verbosity maps to logr V levels: 0 shows warnings only, 1 adds the
// best-effort resolution diagnostics.
func newLogger(verbosity int) logr.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapcore.Level(-verbosity),
	)
	return zapr.NewLogger(zap.New(core))
}
