package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	applog "fintrack/internal/log"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers in the caller's dialect: JSON for API clients, an
// HTML fragment plus notification trigger for HTMX.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, asJSON bool, status int, msg string) {
	if asJSON {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	ErrorResponse(status, msg).Write(w)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	s.events.LogError(r.Context(), msg, err, applog.ComponentHTTP, op,
		applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
	InternalServerError("Something went wrong").Write(w)
}

func (s *Server) templatesReady(w http.ResponseWriter, r *http.Request) bool {
	if s.templates != nil {
		return true
	}
	s.logger.ErrorContext(r.Context(), "Templates not loaded",
		applog.FieldPath, r.URL.Path,
		applog.FieldErrorType, applog.ErrorTypeConfiguration)
	http.Error(w, "templates not loaded", http.StatusInternalServerError)
	return false
}

// render executes name into a buffer first so a failing template never
// leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(r.Context(), "Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
