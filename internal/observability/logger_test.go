package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/xmrg-etl/internal/config"
	"github.com/stretchr/testify/assert"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestNewLogger_InstallsDefault(t *testing.T) {
	restoreDefaultLogger(t)

	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"})

	assert.Same(t, logger, slog.Default())
	assert.IsType(t, &slog.JSONHandler{}, logger.Handler())
}

func TestNewLogger_TextFormat(t *testing.T) {
	restoreDefaultLogger(t)

	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "TEXT"})

	assert.IsType(t, &slog.TextHandler{}, logger.Handler())
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		hidden  slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, hidden: slog.LevelDebug - 1},
		{level: "info", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
		{level: "warning", enabled: slog.LevelWarn, hidden: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, hidden: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreDefaultLogger(t)
			ctx := context.Background()

			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "json"})

			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.hidden))
		})
	}
}
