package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pavelc4/clipgrab-bot/internal/stats"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

const (
	serviceName    = "video-downloader-bot"
	rootText       = "🎬 Video Downloader Bot is running!"
	maxUpdateBytes = 1 << 20
)

// Webhook consumes one Telegram update from a request body.
type Webhook interface {
	HandleWebhook(r *http.Request) error
}

type StatsSource interface {
	Snapshot() stats.Snapshot
}

type Server struct {
	srv     *http.Server
	webhook Webhook
	stats   StatsSource
	tempDir string
}

// New builds the HTTP surface. webhook may be nil when updates come from
// MTProto; /webhook is then not mounted.
func New(port int, webhook Webhook, src StatsSource, tempDir string) *Server {
	s := &Server{
		webhook: webhook,
		stats:   src,
		tempDir: tempDir,
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	if s.webhook != nil {
		r.Post("/webhook", s.handleWebhook)
	}
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootText))
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Bot     *stats.Snapshot   `json:"bot,omitempty"`
	System  *stats.SystemInfo `json:"system,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Service: serviceName}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		sys := stats.GetSystemInfo(s.tempDir, 0)
		resp.Bot = &snap
		resp.System = &sys
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode health response", "error", err)
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBytes)
	if err := s.webhook.HandleWebhook(r); err != nil {
		logger.Warn("Rejected webhook update", "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("HTTP request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
