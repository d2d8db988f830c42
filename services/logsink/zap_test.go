package logsink_test

import (
	"testing"

	"github.com/on-the-ground/effectdeps/services/logsink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZap_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := logsink.NewZap(zap.New(core))

	sink.Info("info msg", "user", "ada")
	sink.Warn("warn msg")
	sink.Error("error msg", "code", 7)
	sink.Debug("debug msg")
	sink.Log("bogus", "fallback msg")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "info msg", entries[0].Message)
	assert.Equal(t, "ada", entries[0].ContextMap()["user"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.EqualValues(t, 7, entries[2].ContextMap()["code"])
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[4].Level)
}

func TestZap_NilLoggerIsNoop(t *testing.T) {
	sink := logsink.NewZap(nil)
	assert.NotPanics(t, func() { sink.Info("dropped") })
}

func TestNew(t *testing.T) {
	logger, err := logsink.New("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = logsink.New("loud", true)
	assert.Error(t, err)
}
