// Package cache provides the optional second-tier store for size lookups.
//
// The in-memory memo inside the size coordinator is authoritative for a
// process. A [Cache] lets successful lookups outlive the process (file
// backend, used by the CLI) or be shared between instances (redis backend,
// used by "bundlesize serve"). Failed lookups are never written here.
//
// Backends:
//
//   - [NullCache]: stores nothing (default)
//   - [FileCache]: one JSON file per key under a directory
//   - [RedisCache]: a redis server via go-redis
//
// [NewPrefixed] namespaces keys so several deployments can share a backend.
package cache
