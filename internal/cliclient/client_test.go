package cliclient

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptsync/promptsync-go/internal/activation"
)

func publishTestRecord(t *testing.T, port int, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), activation.RecordFileName)
	require.NoError(t, activation.PublishRecord(path, port, activation.Token(token)))
	return path
}

// serverPort extracts the port from an httptest server URL
func serverPort(t *testing.T, srv *httptest.Server) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestActivate(t *testing.T) {
	t.Run("missing discovery record exits 2", func(t *testing.T) {
		code := Activate(Options{
			RecordPath: filepath.Join(t.TempDir(), activation.RecordFileName),
			Hotkey:     "ctrl+shift+p",
		})
		assert.Equal(t, ExitDiscovery, code)
	})

	t.Run("stale record with dead port exits 4", func(t *testing.T) {
		// Bind then immediately release a port so nothing listens on it
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port
		require.NoError(t, ln.Close())

		code := Activate(Options{
			RecordPath: publishTestRecord(t, port, "stale-token"),
			Hotkey:     "ctrl+shift+p",
		})
		assert.Equal(t, ExitConnect, code)
	})

	t.Run("non-success status exits 3", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		code := Activate(Options{
			RecordPath: publishTestRecord(t, serverPort(t, srv), "rotated-token"),
			Hotkey:     "ctrl+shift+p",
		})
		assert.Equal(t, ExitHTTPStatus, code)
	})

	t.Run("success exits 0 and sends the record token as bearer", func(t *testing.T) {
		var gotAuth, gotPath, gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			gotMethod = r.Method
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		code := Activate(Options{
			RecordPath: publishTestRecord(t, serverPort(t, srv), "session-token"),
			Hotkey:     "ctrl+shift+p",
			ActiveApp:  "terminal",
		})

		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "Bearer session-token", gotAuth)
		assert.Equal(t, activation.EndpointPath, gotPath)
		assert.Equal(t, http.MethodPost, gotMethod)
	})

	t.Run("unreadable record exits 2 without network activity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), activation.RecordFileName)
		require.NoError(t, os.WriteFile(path, []byte("not-json{"), 0o600))

		code := Activate(Options{RecordPath: path})
		assert.Equal(t, ExitDiscovery, code)
	})
}
