// Package chi serves the pipeline status endpoints.
package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/metrics"
	healthuc "github.com/kailas-cloud/wbindicators/internal/usecase/health"
)

// HealthReporter produces the aggregated health report.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// Server exposes /healthz and /metrics while a run is in progress.
type Server struct {
	health  HealthReporter
	metrics http.Handler
	logger  *zap.Logger
}

// NewServer creates a status server. metricsHandler defaults to promhttp.Handler().
func NewServer(health HealthReporter, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{health: health, metrics: metricsHandler, logger: logger}
}

// Router builds the chi router with recovery, request id and metrics middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", s.metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "not found"})
	})
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
						zap.Stack("stacktrace"),
					)
					writeJSON(w, http.StatusInternalServerError, map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
