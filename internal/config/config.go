package config

import (
	"fmt"
	"time"
)

// Config is the top-level promptsync configuration
type Config struct {
	DataDir    string `json:"data_dir" mapstructure:"data-dir"`
	EnableTray bool   `json:"enable_tray" mapstructure:"tray"`

	// Hotkey is the global shortcut the helper process listens for,
	// e.g. "ctrl+shift+p". It is advisory for the daemon: the daemon only
	// receives the identifier back in activation requests.
	Hotkey string `json:"hotkey" mapstructure:"hotkey"`

	// Activation configures the loopback activation listener
	Activation *ActivationConfig `json:"activation,omitempty" mapstructure:"activation"`

	// Logging configuration
	Logging *LogConfig `json:"logging,omitempty" mapstructure:"logging"`
}

// ActivationConfig configures the activation listener and dispatcher
type ActivationConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// ReadTimeoutSeconds bounds how long a worker waits on a stalled
	// client's request body
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read-timeout-seconds"`

	// ShutdownTimeoutSeconds bounds the graceful drain on stop
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown-timeout-seconds"`

	// DispatchBuffer is the capacity of the UI hand-off queue; requests
	// beyond it are dropped rather than blocking workers
	DispatchBuffer int `json:"dispatch_buffer" mapstructure:"dispatch-buffer"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level         string `json:"level" mapstructure:"level"`
	EnableFile    bool   `json:"enable_file" mapstructure:"enable-file"`
	EnableConsole bool   `json:"enable_console" mapstructure:"enable-console"`
	Filename      string `json:"filename" mapstructure:"filename"`
	LogDir        string `json:"log_dir,omitempty" mapstructure:"log-dir"`
	MaxSize       int    `json:"max_size" mapstructure:"max-size"`       // MB
	MaxBackups    int    `json:"max_backups" mapstructure:"max-backups"` // number of backup files
	MaxAge        int    `json:"max_age" mapstructure:"max-age"`         // days
	Compress      bool   `json:"compress" mapstructure:"compress"`
	JSONFormat    bool   `json:"json_format" mapstructure:"json-format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		EnableTray: true,
		Hotkey:     "ctrl+shift+p",
		Activation: &ActivationConfig{
			Enabled:                true,
			ReadTimeoutSeconds:     5,
			ShutdownTimeoutSeconds: 3,
			DispatchBuffer:         16,
		},
		Logging: &LogConfig{
			Level:         "info",
			EnableFile:    false,
			EnableConsole: true,
			Filename:      "main.log",
			MaxSize:       10,
			MaxBackups:    5,
			MaxAge:        30,
			Compress:      true,
			JSONFormat:    false,
		},
	}
}

// ReadTimeout returns the activation body read timeout as a duration
func (c *ActivationConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful drain timeout as a duration
func (c *ActivationConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return fmt.Errorf("hotkey must not be empty")
	}
	if c.Activation != nil {
		if c.Activation.ReadTimeoutSeconds <= 0 {
			return fmt.Errorf("activation.read_timeout_seconds must be positive, got %d", c.Activation.ReadTimeoutSeconds)
		}
		if c.Activation.ShutdownTimeoutSeconds <= 0 {
			return fmt.Errorf("activation.shutdown_timeout_seconds must be positive, got %d", c.Activation.ShutdownTimeoutSeconds)
		}
		if c.Activation.DispatchBuffer <= 0 {
			return fmt.Errorf("activation.dispatch_buffer must be positive, got %d", c.Activation.DispatchBuffer)
		}
	}
	if c.Logging != nil {
		switch c.Logging.Level {
		case "", "trace", "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s", c.Logging.Level)
		}
	}
	return nil
}
