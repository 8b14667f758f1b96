/*
Package metrics defines and registers the engine's Prometheus metrics:
embedded store merge throughput, transaction-processor instruction
counts, the sequence-gap detector's trees_with_gaps gauge, backfill
task outcomes, relational index synchronizer batch latency and cursor
lag, peer gap-fill stream throughput, read-assembler latency, and
leader-coordination status. Metrics are registered at package init and
exposed over HTTP via Handler.

# Usage

	metrics.StoreMergesTotal.WithLabelValues("dynamic").Inc()

	timer := metrics.NewTimer()
	synchronizer.Tick(ctx)
	timer.ObserveDuration(metrics.SyncBatchDuration)

	http.Handle("/metrics", metrics.Handler())

Collector periodically samples a Source (typically the gap detector,
synchronizer, and coordinator a process constructs) into the gauges
that are not updated inline by the code path that changes them.

# Health

HealthHandler, ReadyHandler, and LivenessHandler expose standard
/health, /ready, and /live endpoints backed by RegisterComponent and
UpdateComponent; the store, coordinate, and peer components are
treated as critical for readiness.
*/
package metrics
