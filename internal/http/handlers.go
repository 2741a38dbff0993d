package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	})
}

// handleReady reports whether templates loaded and the ledger answers
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ledger == nil {
		checks["ledger"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if _, err := s.ledger.Summary(ctx); err != nil {
		checks["ledger"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["ledger"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"limit":          s.rateLimiter.Limit(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	sec := s.detector.GetMetrics()
	rl := s.rateLimiter.GetMetrics()
	tr := s.tracer.GetMetrics()

	size := 0
	if list, err := s.ledger.ListTransactions(r.Context(), ""); err == nil {
		size = len(list)
	}

	w.WriteHeader(http.StatusOK)
	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", tr.TotalRequests)
	writeMetric(w, "http_request_duration_avg_microseconds", "gauge", "Average request duration", tr.AverageResponseTime)
	writeMetric(w, "transactions_added_total", "counter", "Transactions added through the web UI", atomic.LoadInt64(&s.appMetrics.added))
	writeMetric(w, "transactions_removed_total", "counter", "Transactions removed through the web UI", atomic.LoadInt64(&s.appMetrics.removed))
	writeMetric(w, "ledger_transactions", "gauge", "Transactions currently in the ledger", int64(size))
	writeMetric(w, "rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", rl.TotalHits)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rl.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Suspicious requests detected", sec.SuspiciousRequests)
	writeMetric(w, "invalid_client_ip_total", "counter", "Unparseable client or forwarded addresses", sec.InvalidIPAttempts)
	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.appMetrics.uptime).Seconds()))
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
}

// indexPage is the data behind the full page
type indexPage struct {
	Kinds      []string
	Categories categoriesView
	List       listView
	Summary    summaryView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	if !s.templatesReady(w, r) {
		return
	}

	ctx := r.Context()
	filter := parseCategoryFilter(r.URL.Query())

	list, err := s.buildListView(ctx, filter)
	if err != nil {
		s.internalError(w, r, "List transactions failed", err, applog.OpList)
		return
	}
	summary, err := s.buildSummaryView(ctx)
	if err != nil {
		s.internalError(w, r, "Summary failed", err, applog.OpSummary)
		return
	}
	cats, err := s.buildCategoriesView(ctx, filter)
	if err != nil {
		s.internalError(w, r, "Categories failed", err, applog.OpCategories)
		return
	}

	kinds := make([]string, 0, len(core.Kinds()))
	for _, k := range core.Kinds() {
		kinds = append(kinds, k.String())
	}

	s.render(w, r, "index.html", indexPage{
		Kinds:      kinds,
		Categories: cats,
		List:       list,
		Summary:    summary,
	})
}
