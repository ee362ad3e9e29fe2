package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/config"
	"github.com/promptsync/promptsync-go/internal/observability"
)

const (
	bearerPrefix = "Bearer "

	// maxBodyBytes bounds the advisory request body; anything larger is
	// truncated rather than read to completion
	maxBodyBytes = 64 * 1024

	acceptBackoffMin = 50 * time.Millisecond
	acceptBackoffMax = time.Second
)

// Server is the loopback activation listener. It binds 127.0.0.1 on an
// OS-assigned port, authenticates each request against the session token,
// and hands validated requests to the dispatcher. It is constructed once
// by the composition root and owns its start/stop lifecycle.
type Server struct {
	logger          *zap.SugaredLogger
	metrics         *observability.Metrics
	token           Token
	dispatcher      *Dispatcher
	readTimeout     time.Duration
	shutdownTimeout time.Duration

	router     *chi.Mux
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
	port     int

	stopOnce sync.Once
}

// NewServer creates an activation server for the given session token
func NewServer(token Token, dispatcher *Dispatcher, metrics *observability.Metrics, logger *zap.SugaredLogger, cfg *config.ActivationConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig().Activation
	}

	s := &Server{
		logger:          logger,
		metrics:         metrics,
		token:           token,
		dispatcher:      dispatcher,
		readTimeout:     cfg.ReadTimeout(),
		shutdownTimeout: cfg.ShutdownTimeout(),
		router:          chi.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestLogMiddleware())
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.With(s.bearerAuthMiddleware()).Post(EndpointPath, s.handleActivate)
}

// requestLogMiddleware tags each request with an ID and logs its outcome
func (s *Server) requestLogMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", requestID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			s.logger.Debugw("request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

// bearerAuthMiddleware validates the bearer credential against the session
// token. Missing credential yields 401, mismatch 403. Auth failures are
// expected when a helper holds a stale discovery record, so they log low.
func (s *Server) bearerAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, bearerPrefix) {
				s.logger.Debugw("activation request without bearer credential",
					"remote_addr", r.RemoteAddr)
				s.metrics.RecordAuthFailure("missing")
				s.metrics.RecordActivation("unauthorized")
				s.writeError(w, http.StatusUnauthorized, "missing bearer credential")
				return
			}

			presented := strings.TrimPrefix(auth, bearerPrefix)
			if !Verify([]byte(presented), []byte(s.token)) {
				s.logger.Debugw("activation request with invalid credential, possibly a stale discovery record",
					"remote_addr", r.RemoteAddr)
				s.metrics.RecordAuthFailure("invalid")
				s.metrics.RecordActivation("forbidden")
				s.writeError(w, http.StatusForbidden, "invalid credential")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// handleActivate acknowledges an authenticated request and hands it to the
// dispatcher. The body is advisory: a malformed body is logged but does
// not block the activation. The acknowledgement is written before the
// hand-off so the response never waits on the UI context.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req Request

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	switch {
	case err != nil:
		s.logger.Debugw("failed to read activation body", "error", err)
	case len(body) > 0:
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Debugw("malformed activation body, proceeding anyway", "error", err)
		}
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	s.metrics.RecordActivation("ok")

	s.dispatcher.Notify(req)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the loopback listener and begins serving. The bound port is
// available via Port afterwards. Cancelling ctx stops the server.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to bind loopback listener: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
	}

	retrying := &retryListener{
		Listener: ln,
		logger:   s.logger,
		metrics:  s.metrics,
	}

	go func() {
		if serveErr := s.httpServer.Serve(retrying); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Errorw("activation listener terminated", "error", serveErr)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Infow("activation listener started", "addr", ln.Addr().String())
	return nil
}

// Stop closes the listener and drains in-flight requests, bounded by the
// shutdown timeout. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpServer == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Debugw("graceful shutdown incomplete, closing", "error", err)
			_ = s.httpServer.Close()
		}

		s.logger.Info("activation listener stopped")
	})
}

// Port returns the bound listener port, or 0 before Start
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// JSON response helpers

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorw("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{"ok": false, "error": message})
}

// retryListener wraps Accept so a single bad connection cannot terminate
// the serve loop: errors other than listener closure are logged and
// followed by an increasing backoff before retrying.
type retryListener struct {
	net.Listener
	logger  *zap.SugaredLogger
	metrics *observability.Metrics
	backoff time.Duration
}

func (l *retryListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err == nil {
			l.backoff = 0
			return conn, nil
		}

		if errors.Is(err, net.ErrClosed) {
			return nil, err
		}

		if l.backoff == 0 {
			l.backoff = acceptBackoffMin
		} else if l.backoff < acceptBackoffMax {
			l.backoff *= 2
			if l.backoff > acceptBackoffMax {
				l.backoff = acceptBackoffMax
			}
		}

		l.logger.Warnw("accept failed, retrying after backoff",
			"error", err, "backoff", l.backoff)
		l.metrics.RecordAcceptRetry()
		time.Sleep(l.backoff)
	}
}
