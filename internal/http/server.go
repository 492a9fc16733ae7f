// Package http exposes the dashboard as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/category"
	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/service"
	"finanzas/internal/store"
)

type Server struct {
	http.Server
	sessions    *service.Sessions
	catalog     *category.Catalog
	records     store.RecordStore
	logger      *log.Logger
	rateLimiter *rateLimiter

	defaultCurrency core.Currency

	// Summary cache keyed by owner, invalidated on writes.
	summaryCache *cache.LRUCache[service.Summary]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, sessions *service.Sessions, catalog *category.Catalog, records store.RecordStore, defaultCurrency core.Currency, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		sessions:        sessions,
		catalog:         catalog,
		records:         records,
		logger:          logger.WithComponent(log.ComponentHTTP),
		rateLimiter:     newRateLimiter(),
		defaultCurrency: defaultCurrency,
		summaryCache:    cache.NewLRUCache[service.Summary](100, 5*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /api/reports", s.withMiddleware(s.handleReports))
	mux.HandleFunc("GET /api/series/daily", s.withMiddleware(s.handleDailySeries))
	mux.HandleFunc("GET /api/series/monthly", s.withMiddleware(s.handleMonthlySeries))
	mux.HandleFunc("GET /api/calendar", s.withMiddleware(s.handleCalendar))
	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleAccountList))
	mux.HandleFunc("GET /api/accounts/{type}", s.withMiddleware(s.handleAccountTransactions))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/investments", s.withMiddleware(s.handleListInvestments))
	mux.HandleFunc("POST /api/investments", s.withMiddleware(s.handleCreateInvestment))
	mux.HandleFunc("DELETE /api/investments/{id}", s.withMiddleware(s.handleDeleteInvestment))

	mux.HandleFunc("GET /api/services", s.withMiddleware(s.handleListServices))
	mux.HandleFunc("POST /api/services", s.withMiddleware(s.handleCreateService))
	mux.HandleFunc("DELETE /api/services/{id}", s.withMiddleware(s.handleDeleteService))

	mux.HandleFunc("GET /api/events", s.withMiddleware(s.handleListEvents))
	mux.HandleFunc("POST /api/events", s.withMiddleware(s.handleCreateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", s.withMiddleware(s.handleDeleteEvent))

	mux.HandleFunc("GET /api/profile", s.withMiddleware(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withMiddleware(s.handleSaveProfile))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, a request id and
// request logging to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit writes only
		if (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
