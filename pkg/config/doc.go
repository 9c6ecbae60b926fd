// Package config provides environment-driven configuration for the console
// core and gateway.
//
// All settings use the CONSOLE_ prefix:
//
//	CONSOLE_API_ENDPOINT          base URL of the REST API gateway (required)
//	CONSOLE_PORT                  gateway listen port (default 8080)
//	CONSOLE_HEALTH_PORT           health/metrics port (default 9090)
//	CONSOLE_REFERENCE_TTL         reference cache TTL (default 300s)
//	CONSOLE_RECENT_MAX_ITEMS      recent-items cap (default 15)
//	CONSOLE_RECENT_REDIS_URL      enables the redis recents sink
//	CONSOLE_LOG_LEVEL             debug|info|warn|error (default info)
package config
