package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, Initialize("debug"))
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize("warn"))
	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
}

func TestInitialize_BadLevel(t *testing.T) {
	assert.Error(t, Initialize("loud"))
}
