package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/platform/logger"
)

func TestSetupLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Info"} {
		log, err := logger.Setup(level)
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, log)
	}
}

func TestSetupInvalidLevelFallsBack(t *testing.T) {
	log, err := logger.Setup("verbose")
	require.NoError(t, err)
	require.NotNil(t, log)

	// The fallback level is info: debug output must be suppressed.
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx))

	// No logger in context: the default is returned, never nil.
	assert.NotNil(t, logger.FromContext(context.Background()))
}
