//go:build !nogui && !headless

// Package tray provides the system tray application. On GUI builds the
// tray's event loop is the daemon's UI execution context, and the tray is
// the window-activation collaborator the dispatcher notifies.
package tray

import (
	"context"
	"fmt"
	"sync/atomic"

	"fyne.io/systray"
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/activation"
)

// App is the system tray application
type App struct {
	logger   *zap.SugaredLogger
	version  string
	shutdown func()

	activations atomic.Uint64
	statusItem  *systray.MenuItem
	ready       atomic.Bool
}

// New creates a tray application. shutdown is invoked when the user picks
// Quit from the menu.
func New(logger *zap.SugaredLogger, version string, shutdown func()) *App {
	return &App{
		logger:   logger,
		version:  version,
		shutdown: shutdown,
	}
}

// Run starts the tray event loop. It must be called from the main
// goroutine and blocks until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(a.onReady, a.onExit)
	return nil
}

func (a *App) onReady() {
	systray.SetTitle("PromptSync")
	systray.SetTooltip("PromptSync " + a.version)

	a.statusItem = systray.AddMenuItem("Waiting for hotkey", "Last activation")
	a.statusItem.Disable()

	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit PromptSync", "Stop the daemon")

	a.ready.Store(true)

	go func() {
		<-quitItem.ClickedCh
		a.logger.Info("quit requested from tray")
		if a.shutdown != nil {
			a.shutdown()
		}
	}()
}

func (a *App) onExit() {
	a.ready.Store(false)
	a.logger.Debug("tray exited")
}

// HandleActivation surfaces an accepted activation: the status menu entry
// is updated and a desktop notification is raised.
func (a *App) HandleActivation(req activation.Request) {
	n := a.activations.Add(1)

	if a.ready.Load() && a.statusItem != nil {
		a.statusItem.SetTitle(fmt.Sprintf("Activations: %d (last: %s)", n, req.Hotkey))
	}

	if err := beeep.Notify("PromptSync", "Hotkey pressed, opening prompt selector", ""); err != nil {
		a.logger.Debugw("desktop notification failed", "error", err)
	}
}
