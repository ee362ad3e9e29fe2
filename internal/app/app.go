// Package app wires the activation protocol together and owns its
// lifecycle: token generation, discovery publication, the loopback
// listener, and the UI consumption loop.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/activation"
	"github.com/promptsync/promptsync-go/internal/config"
	"github.com/promptsync/promptsync-go/internal/observability"
)

// Activator is the external collaborator notified on each accepted
// activation: bring the window to front, focus the selector, and so on.
type Activator interface {
	HandleActivation(req activation.Request)
}

// App is the composition root for the daemon process
type App struct {
	cfg       *config.Config
	logger    *zap.SugaredLogger
	metrics   *observability.Metrics
	activator Activator

	dispatcher *activation.Dispatcher
	server     *activation.Server
	recordPath string
}

// New creates the application. activator may be nil; activations are then
// only logged.
func New(cfg *config.Config, logger *zap.SugaredLogger, metrics *observability.Metrics, activator Activator) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		activator: activator,
	}
}

// Run starts the activation feature and consumes UI notifications on the
// calling goroutine until ctx is cancelled. The activation feature is
// non-fatal: if the listener cannot bind or the discovery record cannot be
// published, the feature is disabled for the session and Run keeps the
// rest of the application alive.
func (a *App) Run(ctx context.Context) error {
	actCfg := a.cfg.Activation
	if actCfg == nil || !actCfg.Enabled {
		a.logger.Info("activation feature disabled by configuration")
		<-ctx.Done()
		return nil
	}

	token, err := activation.GenerateToken()
	if err != nil {
		// Without entropy there is no safe way to run the listener
		return fmt.Errorf("failed to generate activation token: %w", err)
	}

	a.dispatcher = activation.NewDispatcher(a.logger, a.metrics, actCfg.DispatchBuffer)
	defer a.dispatcher.Close()

	a.server = activation.NewServer(token, a.dispatcher, a.metrics, a.logger, actCfg)

	if err := a.server.Start(ctx); err != nil {
		a.logger.Errorw("activation listener failed to start, feature disabled for this session",
			"error", err)
		<-ctx.Done()
		return nil
	}
	defer a.server.Stop()

	a.recordPath = activation.DefaultRecordPath(a.cfg.DataDir)
	if err := activation.PublishRecord(a.recordPath, a.server.Port(), token); err != nil {
		a.logger.Errorw("failed to publish discovery record, feature disabled for this session",
			"error", err, "path", a.recordPath)
		a.server.Stop()
		<-ctx.Done()
		return nil
	}
	defer func() {
		if err := activation.RemoveRecord(a.recordPath); err != nil {
			a.logger.Warnw("failed to remove discovery record", "error", err)
		}
	}()

	a.logger.Infow("activation ready",
		"port", a.server.Port(), "discovery", a.recordPath)

	// The calling goroutine is the UI execution context
	a.dispatcher.Run(ctx, a.onActivation)
	return nil
}

// Port returns the bound activation port, or 0 when the feature is down
func (a *App) Port() int {
	if a.server == nil {
		return 0
	}
	return a.server.Port()
}

// RecordPath returns the published discovery record path, if any
func (a *App) RecordPath() string {
	return a.recordPath
}

func (a *App) onActivation(req activation.Request) {
	a.logger.Infow("activation received",
		"hotkey", req.Hotkey, "active_app", req.ActiveApp)

	if a.activator != nil {
		a.activator.HandleActivation(req)
	}
}
