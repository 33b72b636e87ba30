// Package observability exposes process-wide Prometheus metrics for the
// memory engine. Registration is lazy and idempotent so library packages
// can record without wiring a registry through every constructor.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type engineMetrics struct {
	ingestTotal    *prometheus.CounterVec
	ingestDuration prometheus.Histogram

	retrieveTotal    *prometheus.CounterVec
	retrieveDuration prometheus.Histogram

	orphansSkippedTotal     prometheus.Counter
	indexWriteFailuresTotal prometheus.Counter
	repairReindexedTotal    prometheus.Counter

	memoryRecords prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *engineMetrics
	registry    *prometheus.Registry
)

func getMetrics() *engineMetrics {
	metricsOnce.Do(func() {
		m := &engineMetrics{
			ingestTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "memory_ingest_total",
					Help: "Total ingest operations by status (ok, degraded, error).",
				},
				[]string{"status"},
			),
			ingestDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "memory_ingest_duration_seconds",
					Help:    "Duration of ingest operations in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			retrieveTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "memory_retrieve_total",
					Help: "Total retrieve operations by status (ok, error).",
				},
				[]string{"status"},
			),
			retrieveDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "memory_retrieve_duration_seconds",
					Help:    "Duration of retrieve operations in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			orphansSkippedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "memory_orphans_skipped_total",
					Help: "Index hits dropped because no record matched.",
				},
			),
			indexWriteFailuresTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "memory_index_write_failures_total",
					Help: "Vector index writes that failed after the record write.",
				},
			),
			repairReindexedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "memory_repair_reindexed_total",
					Help: "Records re-indexed by the repair job.",
				},
			),
			memoryRecords: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "memory_records",
					Help: "Current number of memory records.",
				},
			),
		}

		registry = prometheus.NewRegistry()
		registry.MustRegister(
			m.ingestTotal,
			m.ingestDuration,
			m.retrieveTotal,
			m.retrieveDuration,
			m.orphansSkippedTotal,
			m.indexWriteFailuresTotal,
			m.repairReindexedTotal,
			m.memoryRecords,
		)

		metricsInst = m
	})
	return metricsInst
}

// EnsureRegistered initializes metric registration. Safe to call from
// multiple packages; only the first call does work.
func EnsureRegistered() {
	getMetrics()
}

// RecordIngest records one ingest operation.
func RecordIngest(d time.Duration, status string) {
	m := getMetrics()
	m.ingestTotal.WithLabelValues(status).Inc()
	m.ingestDuration.Observe(d.Seconds())
}

// RecordRetrieve records one retrieve operation.
func RecordRetrieve(d time.Duration, status string) {
	m := getMetrics()
	m.retrieveTotal.WithLabelValues(status).Inc()
	m.retrieveDuration.Observe(d.Seconds())
}

// RecordOrphanSkipped counts a dropped orphaned index hit.
func RecordOrphanSkipped() {
	getMetrics().orphansSkippedTotal.Inc()
}

// RecordIndexWriteFailure counts a degraded ingestion.
func RecordIndexWriteFailure() {
	getMetrics().indexWriteFailuresTotal.Inc()
}

// RecordRepairReindexed counts records restored by a repair pass.
func RecordRepairReindexed(n int) {
	getMetrics().repairReindexedTotal.Add(float64(n))
}

// SetMemoryRecords sets the current record count gauge.
func SetMemoryRecords(n int) {
	getMetrics().memoryRecords.Set(float64(n))
}

// Handler returns an HTTP handler serving the metrics registry.
func Handler() http.Handler {
	getMetrics()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
