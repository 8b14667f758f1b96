// Package gapdetector finds sequence gaps in tree_seq_idx left by
// out-of-order or dropped ingestion, and recovers them.
//
// Scan is the pure state machine from the specification's gap-detection
// algorithm: it walks (tree, seq) -> slot rows in key order and, for
// each tree, either truncates a verified gap-free prefix or flags the
// tree as gapped and emits a BackfillTask naming the missing slot
// range. Detector drives Scan against the embedded store once per call
// to Run, applying its verdicts as trees_gaps markers and tree_seq_idx
// prefix truncations. Backfiller then drains the resulting task queue,
// recollecting each missing range through a SlotFetcher under bounded
// backoff and re-feeding recovered transactions through the same
// txprocessor.Processor entry point live ingestion uses.
package gapdetector
