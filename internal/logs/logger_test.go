package logs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptsync/promptsync-go/internal/config"
)

func TestSetupLogger(t *testing.T) {
	t.Run("console only", func(t *testing.T) {
		logger, err := SetupLogger(&config.LogConfig{
			Level:         "debug",
			EnableConsole: true,
		})
		require.NoError(t, err)
		logger.Debug("hello")
		_ = logger.Sync()
	})

	t.Run("file output creates the log file", func(t *testing.T) {
		logDir := t.TempDir()
		logger, err := SetupLogger(&config.LogConfig{
			Level:      "info",
			EnableFile: true,
			Filename:   "main.log",
			LogDir:     logDir,
			MaxSize:    1,
		})
		require.NoError(t, err)

		logger.Info("written to file")
		_ = logger.Sync()

		assert.FileExists(t, filepath.Join(logDir, "main.log"))
	})

	t.Run("no outputs is an error", func(t *testing.T) {
		_, err := SetupLogger(&config.LogConfig{Level: "info"})
		assert.Error(t, err)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger, err := SetupLogger(nil)
		require.NoError(t, err)
		logger.Info("default config")
	})
}
