package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultDataDir = ".promptsync"
	ConfigFileName = "promptsync.json"
)

// Load loads configuration from file, environment, and defaults.
// Precedence: defaults < config file < PROMPTSYNC_* environment variables.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	setupViper()

	if configPath == "" {
		configPath = viper.GetString("config")
	}

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else {
		// Try the default location; absence is not an error
		defaultPath, err := defaultConfigPath()
		if err == nil {
			if loadErr := loadConfigFile(defaultPath, cfg); loadErr != nil && !os.IsNotExist(loadErr) {
				return nil, fmt.Errorf("failed to load config file %s: %w", defaultPath, loadErr)
			}
		}
	}

	applyEnvOverrides(cfg)

	if cfg.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(homeDir, DefaultDataDir)
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViper configures viper with environment variable handling
func setupViper() {
	viper.SetEnvPrefix("PROMPTSYNC")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
}

// applyEnvOverrides applies PROMPTSYNC_* environment overrides for the
// handful of settings that are useful to flip without editing the file
func applyEnvOverrides(cfg *Config) {
	if v := viper.GetString("data_dir"); v != "" {
		cfg.DataDir = v
	}
	if v := viper.GetString("hotkey"); v != "" {
		cfg.Hotkey = v
	}
	if viper.IsSet("tray") {
		cfg.EnableTray = viper.GetBool("tray")
	}
	if cfg.Logging != nil {
		if v := viper.GetString("log_level"); v != "" {
			cfg.Logging.Level = v
		}
	}
	if cfg.Activation != nil && viper.IsSet("activation_enabled") {
		cfg.Activation.Enabled = viper.GetBool("activation_enabled")
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultDataDir, ConfigFileName), nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
