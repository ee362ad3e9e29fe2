//go:build nogui || headless

package main

import (
	"go.uber.org/zap"
)

// createTray returns nil on headless builds; activations are only logged
func createTray(_ *zap.SugaredLogger, _ string, _ func()) TrayInterface {
	return nil
}
