package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/ports"
	appweb "fintrack/web"
)

// appMetrics counts ledger activity seen through the web UI
type appMetrics struct {
	added   int64
	removed int64
	uptime  time.Time
}

// Server serves the ledger web UI and JSON API.
type Server struct {
	http.Server
	ledger    ports.Ledger
	templates *template.Template
	logger    *applog.Logger
	events    *applog.StructuredLogger

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware
	appMetrics  *appMetrics

	shutdownOnce sync.Once
}

// Options tune a Server. The zero value is usable.
type Options struct {
	Logger             *applog.Logger
	RateLimitPerMinute int
	Templates          fs.FS // defaults to the embedded templates
}

// templateFuncs are available to every page and partial
var templateFuncs = template.FuncMap{
	"dollars": core.FormatDollars,
}

// NewServer configures routes and templates, returning a ready-to-run server.
// A template parse failure is logged; pages then answer 500 until fixed.
func NewServer(addr string, ledger ports.Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:      ledger,
		logger:      logger,
		events:      applog.NewStructuredLogger(logger),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:    detector,
		tracer:      trace.NewMiddleware(detector.ExtractClientIP),
		appMetrics:  &appMetrics{uptime: time.Now()},
	}

	templates := opts.Templates
	if templates == nil {
		templates = appweb.TemplatesFS
	}
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		s.events.LogError(context.Background(), "Failed parsing templates", err,
			applog.ComponentTemplate, applog.OpParse, applog.NewFields().WithErrorType(applog.ErrorTypeConfiguration))
	} else {
		s.templates = t
	}

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/transactions", s.handleCreateTransaction)
	mux.HandleFunc("/transactions/delete", s.handleDeleteTransaction)

	// HTMX partials
	mux.HandleFunc("/ui/transactions", s.handleTransactionList)
	mux.HandleFunc("/ui/summary", s.handleSummary)
	mux.HandleFunc("/ui/categories", s.handleCategories)

	mux.HandleFunc("/api/transactions", s.handleAPITransactions)
	mux.HandleFunc("/api/summary", s.handleAPISummary)
	mux.HandleFunc("/api/categories", s.handleAPICategories)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)

	var h http.Handler = mux
	h = limit(h)
	h = s.withSuspiciousRequestLogging(h)
	h = headers.Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = s.tracer.Middleware(h)
	h = applog.Middleware(s.logger)(h)
	return h
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)

	NewHTMXResponse().
		Status(http.StatusTooManyRequests).
		Header("Retry-After", "60").
		TriggerErrorNotification("Too many requests, slow down").
		BodyString("Rate limit exceeded. Please try again later.").
		Write(w)
}

// withSuspiciousRequestLogging flags probing requests without blocking them
func (s *Server) withSuspiciousRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				applog.FieldClientIP, s.detector.ExtractClientIP(r),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		if err := s.Server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("shutdown http server: %w", err)
		}
	})
	return shutdownErr
}

func (s *Server) recordAdded()   { atomic.AddInt64(&s.appMetrics.added, 1) }
func (s *Server) recordRemoved() { atomic.AddInt64(&s.appMetrics.removed, 1) }
