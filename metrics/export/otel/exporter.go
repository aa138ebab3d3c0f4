package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	brandkit "github.com/nexar-ar/brandkit"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source is anything exposing client metrics; *brandkit.Client satisfies it.
type Source interface {
	MetricsSnapshot() brandkit.MetricsSnapshot
	EventsDropped() uint64
}

type counterDef struct {
	id   brandkit.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{brandkit.MetricRequest, "brandkit_requests_total", "Dispatched API requests, retries included."},
	{brandkit.MetricRequestFailure, "brandkit_request_failures_total", "Requests that returned an error to the caller."},
	{brandkit.MetricUnauthorized, "brandkit_unauthorized_total", "401 responses observed by the gateway."},
	{brandkit.MetricRefreshSuccess, "brandkit_refresh_success_total", "Refresh calls that produced a new access token."},
	{brandkit.MetricRefreshFailure, "brandkit_refresh_failures_total", "Refresh calls that failed terminally."},
	{brandkit.MetricRefreshCoalesced, "brandkit_refresh_coalesced_total", "401'd requests served by another request's refresh."},
	{brandkit.MetricRequestRetried, "brandkit_request_retries_total", "Requests re-dispatched after a refresh."},
	{brandkit.MetricTokenRotated, "brandkit_token_rotations_total", "Opportunistic x-access-token rotations."},
	{brandkit.MetricForcedLogout, "brandkit_forced_logouts_total", "Sessions torn down by the gateway."},
	{brandkit.MetricSessionRestored, "brandkit_session_restores_total", "Sessions restored from persisted storage."},
	{brandkit.MetricStorageCorrupt, "brandkit_storage_corrupt_total", "Persisted records that failed to decode."},
}

var histogramBoundSuffix = [8]string{"5ms", "10ms", "25ms", "50ms", "100ms", "250ms", "500ms", "inf"}

type observedCounter struct {
	id         brandkit.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers the client's metrics on an OpenTelemetry meter.
type Exporter struct {
	source        Source
	registration  metric.Registration
	counters      []observedCounter
	latencyBucket [8]metric.Int64ObservableGauge
	latencyCount  metric.Int64ObservableGauge
	eventsDropped metric.Int64ObservableCounter
}

// NewExporter wires source's snapshot into meter. Close unregisters it.
func NewExporter(meter metric.Meter, source Source) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs)+len(histogramBoundSuffix)+2)

	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	for i := range histogramBoundSuffix {
		name := "brandkit_request_latency_bucket_le_" + histogramBoundSuffix[i]
		ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative latency bucket count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
		}
		exporter.latencyBucket[i] = ins
		observables = append(observables, ins)
	}

	latencyCount, err := meter.Int64ObservableGauge(
		"brandkit_request_latency_count",
		metric.WithDescription("Latency histogram total sample count."),
	)
	if err != nil {
		return nil, fmt.Errorf("create histogram count gauge: %w", err)
	}
	exporter.latencyCount = latencyCount
	observables = append(observables, latencyCount)

	eventsDropped, err := meter.Int64ObservableCounter(
		"brandkit_events_dropped_total",
		metric.WithDescription("Events discarded under dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create events dropped counter: %w", err)
	}
	exporter.eventsDropped = eventsDropped
	observables = append(observables, eventsDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}

		buckets := snapshot.Histograms[brandkit.MetricRequestLatency]
		var cumulative int64
		for i := range exporter.latencyBucket {
			if i < len(buckets) {
				cumulative += int64(buckets[i])
			}
			observer.ObserveInt64(exporter.latencyBucket[i], cumulative)
		}
		observer.ObserveInt64(exporter.latencyCount, cumulative)

		observer.ObserveInt64(exporter.eventsDropped, int64(exporter.source.EventsDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
