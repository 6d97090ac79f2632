package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"piggy/internal/cache"
	"piggy/internal/charts"
	"piggy/internal/core"
	"piggy/internal/ledger"
	applog "piggy/internal/log"
)

const cacheCleanupInterval = 10 * time.Minute

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	CurrencySymbol string
	CacheTTL       time.Duration
	CacheSize      int
	// RateLimit is the number of mutating requests allowed per client IP
	// per minute.
	RateLimit int
	// TrustedProxies lists CIDR networks whose X-Forwarded-For header is
	// believed. nil means DefaultTrustedProxies.
	TrustedProxies []string
	// Health backs /readyz. nil means always ready.
	Health func(ctx context.Context) error
	Logger *applog.Logger
	Clock  func() time.Time
}

// Server exposes the ledger over a JSON API.
type Server struct {
	http.Server

	store  *ledger.Store
	symbol string
	health func(ctx context.Context) error
	logger *applog.Logger

	charts        *charts.Generator
	overviewCache *cache.LRUCache[monthlyStats]
	chartCache    *cache.LRUCache[[]byte]
	cacheManager  *cache.Manager

	rateLimiter  *rateLimiter
	clientIPs    *clientIPResolver
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// monthlyStats is the cached result of one monthly breakdown.
type monthlyStats struct {
	overview core.MonthOverview
	ok       bool
}

// NewServer configures routes and returns a ready-to-run server. Background
// cleanup starts immediately and stops on Shutdown.
func NewServer(addr string, store *ledger.Store, opts Options) *Server {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "¥"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.Logger == nil {
		opts.Logger = applog.Wrap(slog.Default(), applog.ComponentHTTP)
	}
	if opts.TrustedProxies == nil {
		opts.TrustedProxies = DefaultTrustedProxies
	}
	clientIPs, err := newClientIPResolver(opts.TrustedProxies)
	if err != nil {
		opts.Logger.Warn("Ignoring trusted proxy list, using defaults", "error", err)
		clientIPs, _ = newClientIPResolver(DefaultTrustedProxies)
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:         store,
		symbol:        opts.CurrencySymbol,
		health:        opts.Health,
		logger:        opts.Logger,
		charts:        charts.NewGenerator(opts.CurrencySymbol),
		overviewCache: cache.NewLRUCache[monthlyStats](opts.CacheSize, opts.CacheTTL),
		chartCache:    cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(opts.Logger.WithComponent(applog.ComponentCache).Slog()),
		rateLimiter:   newRateLimiter(opts.RateLimit, opts.Clock),
		clientIPs:     clientIPs,
		metrics:       &securityMetrics{},
	}
	s.Handler = s.routes()

	s.cacheManager.Register("overview", s.overviewCache)
	s.cacheManager.Register("chart", s.chartCache)
	s.cacheManager.StartCleanup(context.Background(), cacheCleanupInterval)
	go s.rateLimiter.startCleanup(5 * time.Minute)

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(generateRequestID))
	r.Use(applog.AccessLogMiddleware(s.clientIPs.clientIP))
	r.Use(s.withSecurityHeaders)
	r.Use(s.withRateLimit)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed").Write(w)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Delete("/transactions", s.handleClearTransactions)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)
		r.Get("/balance", s.handleBalance)
		r.Get("/stats/monthly", s.handleMonthlyStats)
		r.Get("/stats/monthly.png", s.handleMonthlyChart)
		r.Get("/categories/{type}", s.handleCategories)
		r.Get("/export", s.handleExport)
	})

	return r
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()

		limited, flagged := s.metrics.snapshot()
		overview, chart := s.overviewCache.Stats(), s.chartCache.Stats()
		s.logger.Info("HTTP server stopping",
			applog.FieldOperation, applog.OpShutdown,
			"rate_limit_hits", limited,
			"flagged_requests", flagged,
			"overview_cache_hits", overview.Hits,
			"overview_cache_misses", overview.Misses,
			"chart_cache_hits", chart.Hits,
			"chart_cache_misses", chart.Misses)

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders sets response hardening headers and logs requests
// that screenRequest flags.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := screenRequest(r); reason != "" {
			atomic.AddInt64(&s.metrics.flaggedRequests, 1)
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Flagged request",
				"reason", reason,
				applog.FieldClientIP, s.clientIPs.clientIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies the per-IP limit to mutating requests.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := s.clientIPs.clientIP(r)
			if !s.rateLimiter.allow(clientIP, s.metrics) {
				applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				TooManyRequestsError().Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
