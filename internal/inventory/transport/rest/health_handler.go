package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/inventory/internal/platform/server"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler serves the banner and liveness endpoints.
type HealthHandler struct {
	pinger server.Pinger
	logger *slog.Logger
}

func NewHealthHandler(pinger server.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger.With("component", "rest", "resource", "health")}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/healthz", h.HealthCheck)
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API Inventory System Ready"))
}

// HealthCheck answers 503 while the storage does not respond to a ping.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		mLogger := loggerWithReqID(h.logger, r)
		mLogger.WarnContext(r.Context(), "Health check failed", "error", err)
		web.RespondError(w, mLogger, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func loggerWithReqID(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With("request_id", web.RequestID(r.Context()))
}
