// Package metrics holds the Prometheus collectors for the data layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsCreated counts inserted owner records by kind (user, post, comment, story, upload).
	RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgram_records_created_total",
		Help: "Total number of records created by kind",
	}, []string{"kind"})

	// RecordsDeleted counts deleted owner records by kind, cascades excluded.
	RecordsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgram_records_deleted_total",
		Help: "Total number of records deleted by kind",
	}, []string{"kind"})

	// EdgeMutations counts edge set writes by relation and operation (add, remove).
	EdgeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgram_edge_mutations_total",
		Help: "Total number of edge set mutations",
	}, []string{"relation", "operation"})

	// DatabaseQueryLatency records repository operation latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapgram_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
