package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/service"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/health"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/middleware"
)

// RouterConfig holds the HTTP surface settings.
type RouterConfig struct {
	ServiceName     string
	CORS            middleware.CORSConfig
	SuggestDebounce time.Duration
	RequestTimeout  time.Duration
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(catalogService, logger)
	liveHandler := NewLiveSuggestHandler(catalogHandler, cfg.SuggestDebounce)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		// Long-lived websocket; kept out of the timeout and compression group.
		r.Get("/suggest/live", liveHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(cfg.RequestTimeout))

			r.Get("/search", catalogHandler.Search)
			r.Get("/suggest", catalogHandler.Suggest)
			r.Get("/history", catalogHandler.History)
			r.Delete("/history", catalogHandler.ClearHistory)
			r.Get("/recommendations", catalogHandler.Recommendations)
			r.Get("/compare", catalogHandler.Compare)
			r.Post("/compare", catalogHandler.CompareJSON)
			r.Get("/facets", catalogHandler.Facets)
		})
	})

	return r
}
