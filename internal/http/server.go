// Package http serves the JSON API: day log and spend item records plus the
// yearly stats views computed from them.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/cache"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/stats"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store"
)

const statsCachePurgeInterval = 10 * time.Minute

type Server struct {
	http.Server
	days        store.DayLogStore
	items       store.SpendItemStore
	rateLimiter *rateLimiter
	statsCfg    stats.Config

	// statsCache holds marshaled responses keyed by "<year>:<view>"; writes
	// invalidate the whole year prefix.
	statsCache *cache.LRU[json.RawMessage]

	stopCachePurge chan struct{}
	shutdownOnce   sync.Once
}

type Options struct {
	CacheTTL  time.Duration
	CacheSize int
	Stats     stats.Config
}

func DefaultOptions() Options {
	return Options{
		CacheTTL:  5 * time.Minute,
		CacheSize: 64,
		Stats:     stats.DefaultConfig(),
	}
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, days store.DayLogStore, items store.SpendItemStore, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		days:           days,
		items:          items,
		rateLimiter:    newRateLimiter(),
		statsCfg:       opts.Stats,
		statsCache:     cache.New[json.RawMessage](opts.CacheSize, opts.CacheTTL),
		stopCachePurge: make(chan struct{}),
	}

	go s.startCachePurge()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /stats", s.withSecurityHeaders(s.handleWrappedStats))
	mux.HandleFunc("GET /stats/monthly", s.withSecurityHeaders(s.handleMonthlyStats))
	mux.HandleFunc("GET /stats/allocation", s.withSecurityHeaders(s.handleAllocationStats))

	mux.HandleFunc("PUT /days/{date}", s.withSecurityHeaders(s.handleUpsertDay))
	mux.HandleFunc("GET /days/{date}", s.withSecurityHeaders(s.handleGetDay))
	mux.HandleFunc("GET /days", s.withSecurityHeaders(s.handleListDays))

	mux.HandleFunc("POST /items", s.withSecurityHeaders(s.handleCreateItem))
	mux.HandleFunc("GET /items", s.withSecurityHeaders(s.handleListItems))
	mux.HandleFunc("DELETE /items/{ref}", s.withSecurityHeaders(s.handleDeleteItem))

	return s
}

func (s *Server) startCachePurge() {
	ticker := time.NewTicker(statsCachePurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if purged := s.statsCache.PurgeExpired(); purged > 0 {
				slog.Debug("Purged expired stats cache entries", "removed", purged)
			}
		case <-s.stopCachePurge:
			return
		}
	}
}

// Shutdown stops the background goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCachePurge)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on writes, and
// request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateYear drops every cached stats view for the year.
func (s *Server) invalidateYear(year int) {
	s.statsCache.DeletePrefix(fmt.Sprintf("%04d:", year))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
