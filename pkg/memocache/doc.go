// Package memocache provides a bounded in-memory cache with per-entry TTL
// and a memoization wrapper for expensive remote lookups.
//
// # Overview
//
// The package has two layers:
//
//   - [Cache]: a size-bounded key→value store where every entry expires a
//     fixed TTL after it was written. Expired entries are removed lazily on
//     read; when the store outgrows its bound, the entry closest to expiry
//     is evicted.
//   - [Memoize]: wraps a context-aware function so that repeated calls with
//     equal arguments are served from the cache. The wrapper reports whether
//     a result came from cache, which callers propagate into response
//     metadata as a "cached" flag.
//
// # Keys
//
// Cache keys are derived with [Key] from an operation name plus the JSON
// form of the arguments, hashed with SHA-256. JSON object keys are emitted
// in sorted order, so two argument maps with the same contents always
// produce the same key regardless of insertion order.
//
// # Concurrency
//
// All Cache operations are safe for concurrent use. Memoized functions
// additionally collapse concurrent identical misses into a single upstream
// call via singleflight, so a burst of equal lookups performs one remote
// round trip.
//
// Results are only cached on success. A failed lookup is never memoized;
// the next call with the same arguments invokes the underlying function
// again.
package memocache
