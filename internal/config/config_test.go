package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ctrl+shift+p", cfg.Hotkey)
	assert.True(t, cfg.Activation.Enabled)
	assert.True(t, cfg.EnableTray)
}

func TestValidate(t *testing.T) {
	t.Run("empty hotkey", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hotkey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive read timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Activation.ReadTimeoutSeconds = 0
		assert.ErrorContains(t, cfg.Validate(), "read_timeout_seconds")
	})

	t.Run("non-positive dispatch buffer", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Activation.DispatchBuffer = -1
		assert.ErrorContains(t, cfg.Validate(), "dispatch_buffer")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "verbose"
		assert.ErrorContains(t, cfg.Validate(), "invalid log level")
	})

	t.Run("nil sections are tolerated", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Activation = nil
		cfg.Logging = nil
		assert.NoError(t, cfg.Validate())
	})
}
