// Package server exposes the animation engine over HTTP: a health probe, the
// canonical channel inventory, and a websocket session endpoint that streams
// composed frames in exchange for live phoneme and mode events.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-faceblend/internal/config"
	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/face"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/viseme"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Deps carries the engine assembly a session needs.
type Deps struct {
	Table  viseme.Table
	Rig    rig.Descriptor
	Params engine.Params
	FPS    int
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxSessions int
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		maxSessions: 16,
		logger:      slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxSessions caps the number of concurrent live sessions.
func WithMaxSessions(n int) Option {
	return func(o *options) { o.maxSessions = n }
}

// WithLogger sets the slog.Logger used for session logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		// Sessions carry no credentials and drive no shared state; the
		// endpoint is safe to reach from any origin.
		return true
	},
}

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	deps Deps
	opts options
	sem  chan struct{} // semaphore for session slots
	log  *slog.Logger
}

// NewHandler returns an http.Handler serving /health, /channels, and the
// /session websocket endpoint.
func NewHandler(deps Deps, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		deps: deps,
		opts: opts,
		log:  opts.logger,
	}
	if opts.maxSessions > 0 {
		h.sem = make(chan struct{}, opts.maxSessions)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/channels", h.handleChannels)
	mux.HandleFunc("/session", h.handleSession)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleChannels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rig":      h.deps.Rig.Name,
		"channels": face.Channels(),
		"clips":    h.deps.Rig.Clips,
	})
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			defer func() { <-h.sem }()
		default:
			writeError(w, http.StatusServiceUnavailable, "session limit reached")
			return
		}
	}

	boundRig, err := rig.New(h.deps.Rig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := uuid.NewString()
	log := h.log.With(slog.String("session", id))

	eng := engine.New(h.deps.Params, h.deps.Table, boundRig, boundRig, time.Now())
	s := newSession(id, conn, eng, h.deps.FPS, log)

	log.Info("session started", slog.String("remote", r.RemoteAddr))
	s.run(r.Context())
	log.Info("session ended")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	deps            Deps
	shutdownTimeout time.Duration
}

func New(cfg config.Config, deps Deps) *Server {
	return &Server{
		cfg:             cfg,
		deps:            deps,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.deps, WithMaxSessions(s.cfg.Server.MaxSessions))

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
