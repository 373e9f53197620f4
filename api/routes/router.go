package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradewind-labs/pricing-service/api/controllers"
	"github.com/tradewind-labs/pricing-service/api/middleware"
	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/config"
	"github.com/tradewind-labs/pricing-service/pkg/db"
	"github.com/tradewind-labs/pricing-service/pkg/logger"
	"github.com/tradewind-labs/pricing-service/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	engine controllers.Evaluator,
	provider pricing.RuleProvider,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisP, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/pricing", func(r chi.Router) {
		r.Post("/evaluate", controllers.PricingEvaluate(engine, provider, logg))
		r.Post("/evaluate/batch", controllers.PricingEvaluateBatch(engine, provider, cfg.Pricing.MaxBatchSize, logg))
	})

	return r
}
