package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/weft-rt/weft/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	// Runtime is attached as a const label so several runtimes can export
	// into one registry. Defaults to "default".
	Runtime string

	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	pollDurationSeconds *prom.HistogramVec
	wakeTotal           *prom.CounterVec
	parkDurationSeconds *prom.HistogramVec
	timerLagSeconds     prom.Histogram
	queueDepth          prom.Gauge
	taskPolls           prom.Histogram
	taskCompletedTotal  prom.Counter
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "weft"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}
	constLabels := prom.Labels{"runtime": normalizeLabel(opts.Runtime, "default")}

	pollVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace:   namespace,
		Name:        "poll_duration_seconds",
		Help:        "Poll call duration in seconds.",
		ConstLabels: constLabels,
		Buckets:     buckets,
	}, []string{"target"})
	wakeVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "wake_total",
		Help:        "Total number of Wake invocations.",
		ConstLabels: constLabels,
	}, []string{"target"})
	parkVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace:   namespace,
		Name:        "park_duration_seconds",
		Help:        "Worker park duration in seconds.",
		ConstLabels: constLabels,
		Buckets:     buckets,
	}, []string{"outcome"})
	timerLag := prom.NewHistogram(prom.HistogramOpts{
		Namespace:   namespace,
		Name:        "timer_lag_seconds",
		Help:        "How far past its deadline each timer fired, in seconds.",
		ConstLabels: constLabels,
		Buckets:     buckets,
	})
	queueDepthGauge := prom.NewGauge(prom.GaugeOpts{
		Namespace:   namespace,
		Name:        "ready_queue_depth",
		Help:        "Ready-queue depth after the most recent enqueue.",
		ConstLabels: constLabels,
	})
	taskPolls := prom.NewHistogram(prom.HistogramOpts{
		Namespace:   namespace,
		Name:        "task_polls",
		Help:        "Polls a task needed from spawn to completion.",
		ConstLabels: constLabels,
		Buckets:     prom.ExponentialBuckets(1, 2, 8),
	})
	taskCompleted := prom.NewCounter(prom.CounterOpts{
		Namespace:   namespace,
		Name:        "task_completed_total",
		Help:        "Total number of completed tasks.",
		ConstLabels: constLabels,
	})

	var err error
	if pollVec, err = registerCollector(reg, pollVec); err != nil {
		return nil, err
	}
	if wakeVec, err = registerCollector(reg, wakeVec); err != nil {
		return nil, err
	}
	if parkVec, err = registerCollector(reg, parkVec); err != nil {
		return nil, err
	}
	if timerLag, err = registerCollector(reg, timerLag); err != nil {
		return nil, err
	}
	if queueDepthGauge, err = registerCollector(reg, queueDepthGauge); err != nil {
		return nil, err
	}
	if taskPolls, err = registerCollector(reg, taskPolls); err != nil {
		return nil, err
	}
	if taskCompleted, err = registerCollector(reg, taskCompleted); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		pollDurationSeconds: pollVec,
		wakeTotal:           wakeVec,
		parkDurationSeconds: parkVec,
		timerLagSeconds:     timerLag,
		queueDepth:          queueDepthGauge,
		taskPolls:           taskPolls,
		taskCompletedTotal:  taskCompleted,
	}, nil
}

// RecordPoll records one poll call.
func (m *MetricsExporter) RecordPoll(target string, duration time.Duration) {
	if m == nil {
		return
	}
	m.pollDurationSeconds.WithLabelValues(normalizeLabel(target, "unknown")).Observe(duration.Seconds())
}

// RecordWake records one Wake invocation.
func (m *MetricsExporter) RecordWake(target string) {
	if m == nil {
		return
	}
	m.wakeTotal.WithLabelValues(normalizeLabel(target, "unknown")).Inc()
}

// RecordPark records one worker park.
func (m *MetricsExporter) RecordPark(duration time.Duration, timedOut bool) {
	if m == nil {
		return
	}
	outcome := "wake"
	if timedOut {
		outcome = "timeout"
	}
	m.parkDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordTimerFired records one fired timer.
func (m *MetricsExporter) RecordTimerFired(lag time.Duration) {
	if m == nil {
		return
	}
	m.timerLagSeconds.Observe(lag.Seconds())
}

// RecordQueueDepth records ready-queue depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// RecordTaskCompleted records one task completion.
func (m *MetricsExporter) RecordTaskCompleted(polls int) {
	if m == nil {
		return
	}
	m.taskPolls.Observe(float64(polls))
	m.taskCompletedTotal.Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
