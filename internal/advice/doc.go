// Package advice caches generated recommendations keyed by recommendation type
// and a fingerprint of the financial snapshot they were generated from.
//
// A cache is constructed explicitly and injected into the orchestrator. Entries
// live for a fixed TTL from creation; when the cache is full the oldest entry is
// evicted. Concurrent misses for the same key share a single computation.
package advice
