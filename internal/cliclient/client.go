// Package cliclient implements the one-shot activation flow the hotkey
// helper runs: read the discovery record, POST to the daemon's loopback
// endpoint with the record's token, report the outcome as an exit code.
package cliclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/activation"
)

// Exit codes, consumed by scripts and the watch loop to distinguish
// failure modes
const (
	ExitSuccess    = 0 // daemon acknowledged the activation
	ExitError      = 1 // unexpected error building the request
	ExitDiscovery  = 2 // discovery record missing or unreadable
	ExitHTTPStatus = 3 // daemon responded with a non-success status
	ExitConnect    = 4 // connection failed (daemon gone, stale record)
)

// DefaultTimeout bounds the whole request; the daemon answers before its
// UI hop so anything slower means trouble
const DefaultTimeout = 2 * time.Second

// Options configures a single activation attempt
type Options struct {
	// RecordPath is the discovery record location
	RecordPath string

	// Hotkey identifies the shortcut that was pressed
	Hotkey string

	// ActiveApp is the best-effort foreground application name
	ActiveApp string

	// Timeout for the HTTP round trip; DefaultTimeout when zero
	Timeout time.Duration

	Logger *zap.SugaredLogger
}

// Activate performs the activation flow once and returns the process exit
// code. At-most-once: no retries, a missed activation just means the user
// presses the hotkey again.
func Activate(opts Options) int {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	rec, err := activation.ReadRecord(opts.RecordPath)
	if err != nil {
		logger.Debugw("discovery failed, daemon may not have started",
			"path", opts.RecordPath, "error", err)
		return ExitDiscovery
	}

	body, err := json.Marshal(activation.Request{
		Hotkey:    opts.Hotkey,
		ActiveApp: opts.ActiveApp,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logger.Errorw("failed to encode activation request", "error", err)
		return ExitError
	}

	url := fmt.Sprintf("http://127.0.0.1:%d%s", rec.Port, activation.EndpointPath)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Errorw("failed to build activation request", "error", err)
		return ExitError
	}
	req.Header.Set("Authorization", "Bearer "+rec.Token)
	req.Header.Set("Content-Type", "application/json")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Debugw("daemon unreachable, discovery record may be stale",
			"url", url, "error", err)
		return ExitConnect
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnw("daemon rejected activation",
			"status", resp.StatusCode)
		return ExitHTTPStatus
	}

	logger.Debugw("activation acknowledged", "status", resp.StatusCode)
	return ExitSuccess
}
