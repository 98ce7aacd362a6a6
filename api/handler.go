// Package api provides the admin HTTP API of an Announcer: the webhook
// directory, test deliveries, event intake, the failure log and scheduled
// jobs.
//
// Handler is a plain http.Handler; ForgeAPI registers the same routes on a
// Forge router with OpenAPI metadata.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/byceps/announce"
)

// Handler serves the admin API on a standard library mux. Every request
// is logged, and a panicking handler answers 500 instead of dropping the
// connection.
type Handler struct {
	announcer *announce.Announcer
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewHandler builds the admin API for a. A nil logger means slog.Default.
func NewHandler(a *announce.Announcer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{announcer: a, logger: logger, mux: http.NewServeMux()}
	for pattern, fn := range h.routes() {
		h.mux.HandleFunc(pattern, fn)
	}
	return h
}

func (h *Handler) routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"POST /webhooks":               h.createWebhook,
		"GET /webhooks":                h.listWebhooks,
		"GET /webhooks/{id}":           h.getWebhook,
		"PUT /webhooks/{id}":           h.updateWebhook,
		"DELETE /webhooks/{id}":        h.deleteWebhook,
		"PATCH /webhooks/{id}/enable":  h.enableWebhook,
		"PATCH /webhooks/{id}/disable": h.disableWebhook,
		"POST /webhooks/{id}/test":     h.testWebhook,
		"GET /event-names":             h.listEventNames,
		"POST /events/{name}":          h.announceEvent,
		"GET /failures":                h.listFailures,
		"DELETE /failures":             h.purgeFailures,
		"GET /failures/{id}":           h.getFailure,
		"DELETE /failures/{id}":        h.deleteFailure,
		"GET /jobs":                    h.listJobs,
		"GET /stats":                   h.getStats,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(r.Context(), "admin api handler panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			writeError(sw, http.StatusInternalServerError, "internal server error")
		}
		h.logger.InfoContext(r.Context(), "admin api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	h.mux.ServeHTTP(sw, r)
}

// statusWriter remembers the status code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// JSON helpers.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best effort
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps err to its status code.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func queryParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// queryInt falls back to def for absent, malformed or negative values.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// queryTime parses an RFC 3339 query parameter. Absent yields nil.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, invalidRequest(key + " must be an RFC 3339 time")
	}
	return &t, nil
}
