// Package reference caches display metadata for remote resources.
//
// Each resource kind (provider, region, collector, ...) gets its own
// Store holding a key->Item map fetched from the upstream inventory
// APIs. Loads are TTL-gated and fail silently: a fetch error keeps the
// previously cached map so navigation never blocks on stale metadata.
// The Catalog groups all stores and settles a full reload concurrently.
package reference
