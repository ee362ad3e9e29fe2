// promptsync-hotkey is the platform hotkey helper. Run bare it performs a
// single activation (for scripting and external hotkey daemons); the
// watch subcommand registers the global hotkey itself and activates the
// daemon on every press.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.design/x/hotkey"

	"github.com/promptsync/promptsync-go/internal/activation"
	"github.com/promptsync/promptsync-go/internal/cliclient"
	"github.com/promptsync/promptsync-go/internal/config"
	"github.com/promptsync/promptsync-go/internal/logs"
)

var (
	dataDir    string
	recordPath string
	hotkeyName string
	activeApp  string
	timeout    time.Duration
	logLevel   string

	version = "v0.1.0" // injected by -ldflags during build
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "promptsync-hotkey",
		Short:   "Activate the PromptSync window from a global hotkey",
		Long:    "Reads the PromptSync discovery record and sends one authenticated activation request to the running daemon.",
		Version: version,
		Run:     runSend,
	}

	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory path (default: ~/.promptsync)")
	rootCmd.PersistentFlags().StringVar(&recordPath, "record", "", "Explicit discovery record path (overrides data directory)")
	rootCmd.PersistentFlags().StringVar(&hotkeyName, "hotkey", "ctrl+shift+p", "Hotkey identifier reported to the daemon")
	rootCmd.PersistentFlags().StringVar(&activeApp, "active-app", "", "Foreground application name reported to the daemon")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", cliclient.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Register the global hotkey and activate PromptSync on every press",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cliclient.ExitError)
	}
}

func setupLogger() (*zap.SugaredLogger, func()) {
	logger, err := logs.SetupLogger(&config.LogConfig{
		Level:         logLevel,
		EnableConsole: true,
	})
	if err != nil {
		nop := zap.NewNop()
		return nop.Sugar(), func() {}
	}
	return logger.Sugar(), func() { _ = logger.Sync() }
}

// resolveRecordPath locates the discovery record the daemon published
func resolveRecordPath() (string, error) {
	if recordPath != "" {
		return recordPath, nil
	}

	dir := dataDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(homeDir, config.DefaultDataDir)
	}
	return activation.DefaultRecordPath(dir), nil
}

func runSend(_ *cobra.Command, _ []string) {
	logger, sync := setupLogger()

	path, err := resolveRecordPath()
	if err != nil {
		logger.Errorw("cannot resolve discovery record path", "error", err)
		sync()
		os.Exit(cliclient.ExitError)
	}

	code := cliclient.Activate(cliclient.Options{
		RecordPath: path,
		Hotkey:     hotkeyName,
		ActiveApp:  activeApp,
		Timeout:    timeout,
		Logger:     logger,
	})

	sync()
	os.Exit(code)
}

func runWatch(_ *cobra.Command, _ []string) error {
	logger, sync := setupLogger()
	defer sync()

	path, err := resolveRecordPath()
	if err != nil {
		return err
	}

	mods, key, err := parseHotkey(hotkeyName)
	if err != nil {
		return fmt.Errorf("invalid hotkey %q: %w", hotkeyName, err)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %q, is it taken by another application?: %w", hotkeyName, err)
	}
	defer func() { _ = hk.Unregister() }()

	logger.Infow("watching for hotkey", "hotkey", hotkeyName, "record", path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			logger.Info("stopping hotkey watch")
			return nil
		case <-hk.Keydown():
			code := cliclient.Activate(cliclient.Options{
				RecordPath: path,
				Hotkey:     hotkeyName,
				ActiveApp:  activeApp,
				Timeout:    timeout,
				Logger:     logger,
			})

			switch code {
			case cliclient.ExitSuccess:
				logger.Debug("activation delivered")
			case cliclient.ExitDiscovery, cliclient.ExitConnect:
				// The daemon is down; the press would otherwise vanish silently
				if err := beeep.Notify("PromptSync", "PromptSync is not running", ""); err != nil {
					logger.Debugw("desktop notification failed", "error", err)
				}
			default:
				logger.Warnw("activation failed", "exit_code", code)
			}
		}
	}
}
