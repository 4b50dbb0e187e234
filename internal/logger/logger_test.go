package logger

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Level(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelWarn

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestWatermillLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	wm := log.GetWatermillLogger().With(watermill.LogFields{"topic": "mgmt.notifications"})
	wm.Info("subscribed", watermill.LogFields{"subscriber": "router"})
	wm.Error("handler failed", errors.New("boom"), nil)
	wm.Trace("message received", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2, "trace is dropped")

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{
		"topic":      "mgmt.notifications",
		"subscriber": "router",
	}, entries[0].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "mgmt.notifications", entries[1].ContextMap()["topic"])
}
