package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store metrics
	StoreMergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_store_merges_total",
			Help: "Total number of column-family merges applied, by column family",
		},
		[]string{"column_family"},
	)

	StoreMergeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_store_merge_duration_seconds",
			Help:    "Time taken to apply a single merge in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"column_family"},
	)

	StoreBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aura_store_write_batch_size",
			Help:    "Number of puts/merges per write batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Transaction processor metrics
	InstructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_instructions_processed_total",
			Help: "Total number of instructions processed, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	NotImplementedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_instructions_not_implemented_total",
			Help: "Total number of instructions skipped because handling is not implemented",
		},
		[]string{"kind"},
	)

	// Gap detector / backfill metrics
	TreesWithGaps = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_trees_with_gaps",
			Help: "Number of compressed-NFT trees currently marked as having a sequence gap",
		},
	)

	BackfillTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_backfill_tasks_total",
			Help: "Total number of backfill tasks, by outcome",
		},
		[]string{"outcome"},
	)

	BackfillDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aura_backfill_duration_seconds",
			Help:    "Time taken to backfill one detected gap in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Relational index synchronizer metrics
	SyncBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aura_sync_batch_duration_seconds",
			Help:    "Time taken to upsert one batch into the relational index",
			Buckets: prometheus.DefBuckets,
		},
	)

	SyncCursorLag = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_sync_cursor_lag",
			Help: "Difference between the current global sequence and the synchronizer cursor's sequence",
		},
	)

	SyncRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aura_sync_rows_upserted_total",
			Help: "Total number of asset index rows upserted into the relational index",
		},
	)

	// Peer gap-fill streaming metrics
	PeerStreamRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_peer_stream_records_total",
			Help: "Total number of asset records sent or received over peer gap-fill streams",
		},
		[]string{"direction"},
	)

	PeerStreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_peer_stream_duration_seconds",
			Help:    "Duration of a peer gap-fill stream call in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	// Read assembler metrics
	ReadAssembleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_read_assemble_duration_seconds",
			Help:    "Time taken to assemble a full asset (or batch) from the embedded store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Coordination (leader election) metrics
	RaftLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_raft_is_leader",
			Help: "Whether this replica holds the coordination leader lease (1 = leader, 0 = follower)",
		},
	)

	RaftAppliedIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aura_raft_applied_index",
			Help: "Last applied Raft log index for leader coordination",
		},
	)
)

func init() {
	prometheus.MustRegister(
		StoreMergesTotal,
		StoreMergeDuration,
		StoreBatchSize,
		InstructionsTotal,
		NotImplementedTotal,
		TreesWithGaps,
		BackfillTasksTotal,
		BackfillDuration,
		SyncBatchDuration,
		SyncCursorLag,
		SyncRowsTotal,
		PeerStreamRecordsTotal,
		PeerStreamDuration,
		ReadAssembleDuration,
		RaftLeader,
		RaftAppliedIndex,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
