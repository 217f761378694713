// Package config loads bundlesize settings.
//
// Settings come from three layers, later ones winning: built-in defaults
// ([Default]), a TOML file ([Load], normally at [DefaultPath]) and
// BUNDLESIZE_* environment variables ([Config.ApplyEnv]). The CLI also loads
// a .env file into the environment before reading them.
//
// Example config.toml:
//
//	max_concurrent_requests = 4
//	metadata_backoff = "10m"
//	requests_per_second = 5.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// [Watch] polls the file so long-running commands can pick up a new
// request concurrency without restarting.
package config
