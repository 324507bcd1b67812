package service

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for timetable runs.
type MetricsService struct {
	registry           *prometheus.Registry
	runs               prometheus.Counter
	scheduled          prometheus.Counter
	unscheduled        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	rosterLoadDuration *prometheus.HistogramVec
	exportsWritten     *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the timetable collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total number of scheduling runs",
	})

	scheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_classes_scheduled_total",
		Help: "Total number of classes placed",
	})

	unscheduled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_classes_unscheduled_total",
		Help: "Total number of classes left unscheduled by reason",
	}, []string{"reason"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Duration of scheduling runs in seconds",
		Buckets: prometheus.DefBuckets,
	})

	rosterLoadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_roster_load_duration_seconds",
		Help:    "Duration of roster loads by source",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	exportsWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_exports_written_total",
		Help: "Total number of rendered timetable files by format",
	}, []string{"format"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	registry.MustRegister(runs, scheduled, unscheduled, generationDuration, rosterLoadDuration, exportsWritten, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses)

	// Expose every reason even before the first run.
	for _, reason := range models.Reasons {
		unscheduled.WithLabelValues(string(reason))
	}

	return &MetricsService{
		registry:           registry,
		runs:               runs,
		scheduled:          scheduled,
		unscheduled:        unscheduled,
		generationDuration: generationDuration,
		rosterLoadDuration: rosterLoadDuration,
		exportsWritten:     exportsWritten,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// ObserveRun records the outcome of one scheduling run.
func (m *MetricsService) ObserveRun(result models.ScheduleResult, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.scheduled.Add(float64(len(result.Scheduled)))
	for _, u := range result.Unscheduled {
		m.unscheduled.WithLabelValues(string(u.Reason)).Inc()
	}
}

// ObserveRosterLoad records how long a roster source took to answer.
func (m *MetricsService) ObserveRosterLoad(source string, duration time.Duration) {
	if m == nil {
		return
	}
	m.rosterLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordExport counts a rendered file.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exportsWritten.WithLabelValues(format).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps all metrics in the text exposition format for the
// node-exporter textfile collector.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
