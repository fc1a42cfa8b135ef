// Package logging provides the zap logger shared by oswview packages.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables development logging when set to "true".
const DebugEnv = "OSWVIEW_DEBUG"

// NewLogger returns a new zap.SugaredLogger writing to stderr, so that command
// output on stdout stays machine readable.
func NewLogger(debug bool) *zap.SugaredLogger {
	var config zap.Config
	if v, ok := os.LookupEnv(DebugEnv); debug || (ok && v == "true") {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("oswview").Sugar()
}

type loggerKey struct{}

// WithLogger returns a copy of parent context in which the
// value associated with logger key is the supplied logger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger in the context, or a no-op logger when none is set.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}
