//go:build !nogui && !headless

package main

import (
	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/tray"
)

// createTray creates the tray application for GUI platforms
func createTray(logger *zap.SugaredLogger, version string, shutdown func()) TrayInterface {
	return tray.New(logger, version, shutdown)
}
