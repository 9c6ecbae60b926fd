// Package observability provides structured logging, Prometheus metrics,
// health checks, and graceful shutdown for the console core.
//
// # Logging
//
// Logger wraps stdlib slog with a JSON handler:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("kind", "collector").Info("reference loaded")
//
// # Metrics
//
// Metrics holds the Prometheus collectors for role grants, navigation
// decisions, reference cache activity, and token refreshes:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.GrantsTotal.WithLabelValues("WORKSPACE", "success").Inc()
//
// # Related Packages
//
//   - pkg/guard: records navigation redirect metrics
//   - pkg/reference: records cache load/skip metrics
package observability
