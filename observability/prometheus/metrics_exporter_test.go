package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("weft", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordPoll("task", 250*time.Microsecond)
	exporter.RecordWake("task")
	exporter.RecordWake("task")
	exporter.RecordWake("stale")
	exporter.RecordPark(5*time.Millisecond, true)
	exporter.RecordTimerFired(time.Millisecond)
	exporter.RecordQueueDepth(7)
	exporter.RecordTaskCompleted(3)

	wakeTotal := testutil.ToFloat64(exporter.wakeTotal.WithLabelValues("task"))
	if wakeTotal != 2 {
		t.Fatalf("wake total = %v, want 2", wakeTotal)
	}

	staleTotal := testutil.ToFloat64(exporter.wakeTotal.WithLabelValues("stale"))
	if staleTotal != 1 {
		t.Fatalf("stale wake total = %v, want 1", staleTotal)
	}

	queueDepth := testutil.ToFloat64(exporter.queueDepth)
	if queueDepth != 7 {
		t.Fatalf("queue depth = %v, want 7", queueDepth)
	}

	completed := testutil.ToFloat64(exporter.taskCompletedTotal)
	if completed != 1 {
		t.Fatalf("completed total = %v, want 1", completed)
	}

	pollCount, err := histogramSampleCount(exporter.pollDurationSeconds.WithLabelValues("task"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if pollCount != 1 {
		t.Fatalf("poll sample count = %d, want 1", pollCount)
	}

	parkCount, err := histogramSampleCount(exporter.parkDurationSeconds.WithLabelValues("timeout"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if parkCount != 1 {
		t.Fatalf("park sample count = %d, want 1", parkCount)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("weft", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("weft", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordWake("root")
	second.RecordWake("root")

	got := testutil.ToFloat64(first.wakeTotal.WithLabelValues("root"))
	if got != 2 {
		t.Fatalf("shared wake counter = %v, want 2", got)
	}
}

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
