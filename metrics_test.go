package brandkit

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricRequest)
	m.Inc(MetricRequest)
	m.Inc(MetricRefreshSuccess)

	if got := m.Value(MetricRequest); got != 2 {
		t.Fatalf("MetricRequest = %d, want 2", got)
	}
	if got := m.Value(MetricRefreshSuccess); got != 1 {
		t.Fatalf("MetricRefreshSuccess = %d, want 1", got)
	}
	if got := m.Value(MetricForcedLogout); got != 0 {
		t.Fatalf("untouched counter = %d, want 0", got)
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricRequest)
	m.Observe(MetricRequestLatency, 10*time.Millisecond)

	if got := m.Value(MetricRequest); got != 0 {
		t.Fatalf("disabled metrics recorded a value: %d", got)
	}
	snap := m.Snapshot()
	if len(snap.Histograms) != 0 {
		t.Fatalf("disabled metrics produced histograms: %+v", snap.Histograms)
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricRequest)
	if nilMetrics.Value(MetricRequest) != 0 {
		t.Fatal("nil metrics must be a no-op")
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricRequestLatency, 3*time.Millisecond)
	m.Observe(MetricRequestLatency, 40*time.Millisecond)
	m.Observe(MetricRequestLatency, 40*time.Millisecond)
	m.Observe(MetricRequestLatency, 2*time.Second)

	buckets := m.Snapshot().Histograms[MetricRequestLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	if buckets[0] != 1 || buckets[3] != 2 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket distribution: %v", buckets)
	}
}

func TestMetricsSnapshotIsDetached(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricRequest)

	snap := m.Snapshot()
	m.Inc(MetricRequest)

	if snap.Counters[MetricRequest] != 1 {
		t.Fatalf("snapshot moved with live counters: %d", snap.Counters[MetricRequest])
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricRequest)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRequest); got != workers*perWorker {
		t.Fatalf("MetricRequest = %d, want %d", got, workers*perWorker)
	}
}
