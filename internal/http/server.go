package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
	applog "github.com/Leobor91/Finanzas-Personales/internal/log"
	"github.com/Leobor91/Finanzas-Personales/internal/rates"
	"github.com/Leobor91/Finanzas-Personales/internal/services"
)

// CategoryCatalog is the category CRUD surface the handlers need.
type CategoryCatalog interface {
	AddCategory(ctx context.Context, typ core.MovementType, name, icon string) (int64, error)
	CategoriesByType(ctx context.Context, typ core.MovementType) ([]core.Category, error)
	ListAllCategories(ctx context.Context) ([]core.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, icon string) (bool, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
}

// YearLister reports which years have recorded movements.
type YearLister interface {
	ListYears(ctx context.Context) ([]string, error)
}

// RatesFetcher looks up current exchange rates. May be nil when FX
// lookups are disabled.
type RatesFetcher interface {
	Fetch(ctx context.Context, base string, symbols []string) (rates.Latest, error)
}

// Server wires the ledger services onto the JSON API routes.
type Server struct {
	http.Server

	movements *services.MovementService
	queries   *services.QueryService
	reports   *services.ReportService
	catalog   CategoryCatalog
	years     YearLister
	rates     RatesFetcher

	baseCurrency string
	validate     *validator.Validate
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, movements *services.MovementService, queries *services.QueryService, reports *services.ReportService, catalog CategoryCatalog, years YearLister, ratesClient RatesFetcher, baseCurrency string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		movements:    movements,
		queries:      queries,
		reports:      reports,
		catalog:      catalog,
		years:        years,
		rates:        ratesClient,
		baseCurrency: baseCurrency,
		validate:     validator.New(),
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /movements", s.withMiddleware(s.handleCreateMovement))
	mux.HandleFunc("GET /movements", s.withMiddleware(s.handleListMovements))

	mux.HandleFunc("GET /reports/balance", s.withMiddleware(s.handleReportBalance))
	mux.HandleFunc("GET /reports/categories", s.withMiddleware(s.handleReportCategories))
	mux.HandleFunc("GET /reports/top-expenses", s.withMiddleware(s.handleReportTopExpenses))
	mux.HandleFunc("GET /reports/yearly", s.withMiddleware(s.handleReportYearly))
	mux.HandleFunc("GET /reports/daily", s.withMiddleware(s.handleReportDaily))
	mux.HandleFunc("GET /reports/years", s.withMiddleware(s.handleReportYears))

	mux.HandleFunc("GET /fx/latest", s.withMiddleware(s.handleFXLatest))

	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleCategoriesByType))
	mux.HandleFunc("POST /categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/all", s.withMiddleware(s.handleAllCategories))
	mux.HandleFunc("PUT /categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine and then the HTTP
// server itself.
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

// withMiddleware adds security headers, rate limiting on writes, a
// request id and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// requestIDFromContext returns the id assigned by withMiddleware, or ""
// for requests that bypassed it.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter for non-GET requests.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 mutating requests per minute.
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
