// Package otel bridges the client's in-process metrics into OpenTelemetry.
// Counters and the request-latency histogram are registered as observables;
// every collection cycle reads one MetricsSnapshot, so export cost is paid by
// the collector, not the request path.
package otel
