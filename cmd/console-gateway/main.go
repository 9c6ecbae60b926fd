package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudsteer/console-core/pkg/config"
	"github.com/cloudsteer/console-core/pkg/favorite"
	"github.com/cloudsteer/console-core/pkg/gateway"
	"github.com/cloudsteer/console-core/pkg/guard"
	"github.com/cloudsteer/console-core/pkg/identity"
	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/recent"
	"github.com/cloudsteer/console-core/pkg/reference"
	"github.com/cloudsteer/console-core/pkg/routing"
	"github.com/cloudsteer/console-core/pkg/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"port":        cfg.Gateway.Port,
		"health_port": cfg.Gateway.HealthPort,
		"api":         cfg.API.Endpoint,
	}).Info("Starting console gateway")

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Session and identity wiring. The identity client doubles as the
	// session's silent token refresher.
	sess := session.NewManager(logger)
	identityClient := identity.NewClient(cfg.API.Endpoint, cfg.API.GrantTimeout)
	sess.SetRefresher(identityClient)
	granter := identity.NewGranter(identityClient, sess, logger, metrics)

	// Reference caches, one store per kind, all sharing the list client.
	listClient := reference.NewListClient(cfg.API.Endpoint, cfg.API.ListTimeout, sess)
	catalog := reference.NewDefaultCatalog(listClient, cfg.Reference.TTL, logger, metrics)

	var redisClient *redis.Client
	var sink recent.Sink
	if cfg.Recent.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Recent.RedisURL,
			Password: cfg.Recent.RedisPassword,
			DB:       cfg.Recent.RedisDB,
		})
		sink = recent.NewRedisSink(redisClient, "default", cfg.Recent.MaxItems)
		logger.WithField("redis", cfg.Recent.RedisURL).Info("Recent items persisted to redis")
	}
	tracker, err := recent.NewTracker(cfg.Recent.MaxItems, sink, logger, metrics)
	if err != nil {
		logger.WithError(err).Error("Failed to create recent tracker")
		os.Exit(1)
	}

	routeRegistry := routing.MustNewRegistry(routing.DefaultRoutes())
	state := guard.NewState()
	navGuard := guard.New(guard.Options{
		Registry:      routeRegistry,
		Session:       sess,
		Granter:       granter,
		References:    catalog,
		Recents:       tracker,
		State:         state,
		Logger:        logger,
		Metrics:       metrics,
		SyncReload:    cfg.Reference.SyncReload,
		ReloadTimeout: cfg.Reference.ReloadTimeout,
	})

	server := gateway.NewServer(gateway.Options{
		Guard:       navGuard,
		Registry:    routeRegistry,
		Catalog:     catalog,
		Recents:     tracker,
		Converter:   favorite.NewConverter(catalog),
		ReloadGuard: guard.NewReloadGuard(guard.DefaultReloadWindow),
		Logger:      logger,
		Metrics:     metrics,
	})

	httpServer := &http.Server{
		Addr:         cfg.Gateway.Host + ":" + cfg.Gateway.Port,
		Handler:      server,
		ReadTimeout:  cfg.Gateway.ReadTimeout,
		WriteTimeout: cfg.Gateway.WriteTimeout,
		IdleTimeout:  cfg.Gateway.IdleTimeout,
	}

	// Liveness, readiness and metrics on a separate port for probes.
	health := observability.NewHealthChecker(redisClient, identityClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	healthMux.Handle("/metrics", metrics.Handler(registry))
	healthServer := &http.Server{
		Addr:        cfg.Gateway.Host + ":" + cfg.Gateway.HealthPort,
		Handler:     healthMux,
		ReadTimeout: 5 * time.Second,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Gateway.ShutdownTimeout)

	if cfg.Reference.RefreshSchedule != "" {
		refresher, err := reference.NewRefresher(catalog, cfg.Reference.RefreshSchedule, cfg.Reference.ReloadTimeout, logger)
		if err != nil {
			logger.WithError(err).Error("Invalid reference refresh schedule")
			os.Exit(1)
		}
		refresher.Start()
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			refresher.Stop()
			return nil
		})
		logger.WithField("schedule", cfg.Reference.RefreshSchedule).Info("Reference refresher scheduled")
	}

	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Gateway listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Gateway server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
