package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradewind-labs/pricing-service/api/routes"
	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/internal/rules"
	"github.com/tradewind-labs/pricing-service/pkg/config"
	"github.com/tradewind-labs/pricing-service/pkg/db"
	"github.com/tradewind-labs/pricing-service/pkg/logger"
	"github.com/tradewind-labs/pricing-service/pkg/metrics"
	"github.com/tradewind-labs/pricing-service/pkg/migrate"
	"github.com/tradewind-labs/pricing-service/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var provider pricing.RuleProvider = rules.NewProvider(rules.NewRepository(dbClient.DB()), logg)
	if cfg.FeatureFlags.UseRuleCache {
		provider = rules.NewCachedProvider(provider, redisClient, cfg.Pricing.RuleCacheTTL, logg)
	}

	engine := pricing.NewEngine(
		pricing.WithMetrics(metrics.NewEvaluationMetrics(prometheus.DefaultRegisterer)),
		pricing.WithBatchConcurrency(cfg.Pricing.BatchConcurrency),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, engine, provider),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
