package gapdetector

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/aura-indexer/aura/pkg/errkind"
	"github.com/aura-indexer/aura/pkg/log"
	"github.com/aura-indexer/aura/pkg/metrics"
	"github.com/aura-indexer/aura/pkg/store"
)

// storeRowIterator adapts a single store.Range pass over tree_seq_idx
// into the RowIterator Scan consumes, so Scan itself stays a pure
// function independent of the store.
type storeRowIterator struct {
	rows []Row
	pos  int
}

func (it *storeRowIterator) Next() (Row, bool, error) {
	if it.pos >= len(it.rows) {
		return Row{}, false, nil
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true, nil
}

// Detector drives Scan against the embedded store: one Run call performs
// one full pass over tree_seq_idx, applies the resulting gap markers and
// prefix truncations, and reports the gap task queue.
type Detector struct {
	store       *store.Store
	gappedCount atomic.Int64
}

// New creates a Detector over s.
func New(s *store.Store) *Detector {
	return &Detector{store: s}
}

// TreesWithGaps satisfies metrics.Source.
func (d *Detector) TreesWithGaps() int {
	return int(d.gappedCount.Load())
}

// Run performs one scan pass: it loads every tree_seq_idx row, runs Scan,
// marks/clears trees_gaps, truncates each tree's verified prefix, and
// returns the backfill tasks a Backfiller should drain.
func (d *Detector) Run() ([]BackfillTask, error) {
	logger := log.WithComponent("gapdetector")

	var rows []Row
	err := d.store.Range(store.CFTreeSeqIdx, nil, nil, func(key, value []byte) error {
		tree, seq, ok := store.DecodeTreeSeqKey(key)
		if !ok {
			return nil
		}
		if len(value) != 8 {
			return nil
		}
		slot := binary.BigEndian.Uint64(value)
		rows = append(rows, Row{Tree: tree, Seq: seq, Slot: slot})
		return nil
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.Storage, "scan tree_seq_idx", err)
	}

	result, err := Scan(&storeRowIterator{rows: rows})
	if err != nil {
		return nil, err
	}

	for _, tree := range result.GappedTrees {
		if err := d.store.Put(store.CFTreesGaps, tree.Bytes(), []byte{1}); err != nil {
			return nil, err
		}
	}
	for _, tree := range result.ClearedTrees {
		if err := d.store.Delete(store.CFTreesGaps, tree.Bytes()); err != nil {
			return nil, err
		}
	}
	for _, t := range result.Truncations {
		if err := d.store.DeleteRange(store.CFTreeSeqIdx, store.TreeSeqKey(t.Tree, 0), store.TreeSeqKey(t.Tree, t.UpToSeq+1)); err != nil {
			return nil, errkind.Wrap(errkind.Storage, "truncate tree_seq_idx prefix", err)
		}
	}

	count, err := d.countGapped()
	if err != nil {
		return nil, err
	}
	d.gappedCount.Store(int64(count))
	metrics.TreesWithGaps.Set(float64(count))

	if len(result.BackfillTasks) > 0 {
		logger.Warn().Int("gap_count", len(result.BackfillTasks)).Msg("sequence gaps detected")
	}

	return result.BackfillTasks, nil
}

func (d *Detector) countGapped() (int, error) {
	var n int
	err := d.store.Range(store.CFTreesGaps, nil, nil, func(key, value []byte) error {
		n++
		return nil
	})
	if err != nil {
		return 0, errkind.Wrap(errkind.Storage, "count trees_gaps", err)
	}
	return n, nil
}
