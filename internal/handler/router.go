package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/kipledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned to the request by the logging
// middleware, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	orderSvc *service.OrderService,
	settingsSvc *service.SettingsService,
	summarySvc *service.SummaryService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	orderH := NewOrderHandler(orderSvc, logger)
	settingsH := NewSettingsHandler(settingsSvc, logger)
	summaryH := NewSummaryHandler(summarySvc, logger)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", settingsH.Get)
		r.Put("/settings", settingsH.Update)

		r.Get("/orders", orderH.List)
		r.Post("/orders", orderH.Create)
		r.Get("/orders/{order_id}", orderH.Get)
		r.Put("/orders/{order_id}", orderH.Update)
		r.Delete("/orders/{order_id}", orderH.Delete)

		r.Get("/summary", summaryH.Get)
	})

	return r
}

// requestLogging returns middleware that tags each request with an id and
// logs its method, path, status code, and duration using slog. A
// client-supplied X-Request-ID is reused.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("request_id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
