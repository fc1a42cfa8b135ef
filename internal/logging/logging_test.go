package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Infow("loaded features", "count", 3)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "loaded features", entries[0].Message)
		assert.Equal(t, int64(3), entries[0].ContextMap()["count"])
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	logger.Info("discarded")
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(false))
	assert.NotNil(t, NewLogger(true))
}
