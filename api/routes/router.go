package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haneul-labs/fassto-gateway/api/controllers"
	"github.com/haneul-labs/fassto-gateway/api/middleware"
	"github.com/haneul-labs/fassto-gateway/pkg/config"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	syncService controllers.SyncService,
	proxyService controllers.ProxyService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(logg, cfg.CORS.Origins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sync", controllers.SheetSync(syncService, logg))
		r.Post("/proxy", controllers.FMSProxy(proxyService, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
