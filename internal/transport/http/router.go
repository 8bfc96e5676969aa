package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statuslist/internal/platform/health"
	"statuslist/internal/statuslist/handler"
	"statuslist/pkg/platform/middleware/request"
	"statuslist/pkg/platform/middleware/requesttime"
)

const requestTimeout = 30 * time.Second

// RouterDeps holds what NewRouter mounts. Health and Gatherer are optional.
type RouterDeps struct {
	StatusList   *handler.Handler
	Health       *health.Handler
	Logger       *slog.Logger
	Latency      *request.Metrics
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	if deps.Latency != nil {
		r.Use(request.LatencyMiddleware(deps.Latency))
	}
	r.Use(chimiddleware.Timeout(requestTimeout))

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(deps.MaxBodyBytes))
		deps.StatusList.Register(r)
	})

	return r
}
