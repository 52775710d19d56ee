// Package metrics groups metrics adapters.
//
// Implementations:
//   - prometheus: per-server registry with request counters, latency and build info
package metrics
