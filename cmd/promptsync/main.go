package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/activation"
	"github.com/promptsync/promptsync-go/internal/app"
	"github.com/promptsync/promptsync-go/internal/config"
	"github.com/promptsync/promptsync-go/internal/logs"
	"github.com/promptsync/promptsync-go/internal/observability"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logToFile  bool
	logDir     string
	enableTray bool

	version = "v0.1.0" // injected by -ldflags during build
)

// TrayInterface is the tray application on GUI builds, created by the
// build-tagged createTray implementations
type TrayInterface interface {
	Run(ctx context.Context) error
	HandleActivation(req activation.Request)
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "promptsync",
		Short:   "PromptSync - prompt manager daemon with global hotkey activation",
		Version: version,
		RunE:    runDaemon,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory path (default: ~/.promptsync)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-to-file", false, "Enable logging to file in standard OS location")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Custom log directory path (overrides standard OS location)")
	rootCmd.PersistentFlags().BoolVar(&enableTray, "tray", true, "Enable system tray (use --tray=false to disable)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Command-line overrides
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-to-file") {
		cfg.Logging.EnableFile = logToFile
	}
	if logDir != "" {
		cfg.Logging.LogDir = logDir
	}
	if cmd.Flags().Changed("tray") {
		cfg.EnableTray = enableTray
	}

	logger, err := logs.SetupLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()

	sugar.Infow("starting promptsync",
		"version", version,
		"data_dir", cfg.DataDir,
		"tray_enabled", cfg.EnableTray)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics(sugar)

	trayApp := createTray(sugar, version, cancel)
	if !cfg.EnableTray {
		trayApp = nil
	}

	var activator app.Activator
	if trayApp != nil {
		activator = trayActivator{trayApp}
	}

	application := app.New(cfg, sugar, metrics, activator)

	if trayApp == nil {
		return application.Run(ctx)
	}

	// The tray loop must own the main goroutine; the activation runtime
	// moves to a worker.
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(ctx)
	}()

	if err := trayApp.Run(ctx); err != nil {
		sugar.Warnw("tray loop failed", zap.Error(err))
	}
	cancel()

	return <-errCh
}

// trayActivator adapts the tray to the app.Activator collaborator
type trayActivator struct {
	tray TrayInterface
}

func (t trayActivator) HandleActivation(req activation.Request) {
	t.tray.HandleActivation(req)
}
