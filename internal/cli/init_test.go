package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
)

func TestSetupLogger_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}

	logger, closeFn, err := SetupLogger(cfg, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestSetupLogger_LogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "fintrack.log")
	cfg := &config.Config{LogLevel: "info", LogFormat: "text", LogFile: path}

	logger, closeFn, err := SetupLogger(cfg, &buf)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}

func TestSetupLogger_BadLevel(t *testing.T) {
	_, closeFn, err := SetupLogger(&config.Config{LogLevel: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoError(t, closeFn())
}

func TestInitPublisher_DisabledWithoutURL(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := SetupLogger(&config.Config{LogLevel: "info", LogFormat: "text"}, &buf)
	require.NoError(t, err)

	pub := InitPublisher(logger, &config.Config{})

	assert.Nil(t, pub)
	assert.Contains(t, buf.String(), "AMQP not configured")
}

func TestSignalContext_FollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
