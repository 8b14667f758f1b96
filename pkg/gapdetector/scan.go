package gapdetector

import "github.com/aura-indexer/aura/pkg/pubkey"

// Row is one (tree, seq) -> slot entry from tree_seq_idx, visited in
// ascending key order (tree major, seq minor, per the big-endian key
// encoding in pkg/store/keys.go).
type Row struct {
	Tree pubkey.Key
	Seq  uint64
	Slot uint64
}

// RowIterator yields Rows in ascending key order. Next returns
// ok=false with a nil error once exhausted.
type RowIterator interface {
	Next() (row Row, ok bool, err error)
}

// BackfillTask names a [FromSlot, ToSlot] range (exclusive of both
// endpoints, per spec) within Tree whose transactions must be recollected
// from a blockchain RPC to close a detected sequence gap. FromSlot is the
// slot of the row immediately after the gap; ToSlot is the slot of the
// last contiguous row seen before the gap — literally spec's "range
// [slot, last_slot]", not normalized by magnitude.
type BackfillTask struct {
	Tree     pubkey.Key
	FromSlot uint64
	ToSlot   uint64
}

// Truncation says tree_seq_idx's contiguous, gap-free prefix for Tree —
// every (Tree, seq) with seq <= UpToSeq — has been verified and may be
// deleted.
type Truncation struct {
	Tree    pubkey.Key
	UpToSeq uint64
}

// Result is everything one Scan pass over tree_seq_idx produced.
type Result struct {
	GappedTrees   []pubkey.Key
	ClearedTrees  []pubkey.Key
	BackfillTasks []BackfillTask
	Truncations   []Truncation
}

// scanState is the per-tree state the algorithm in §4.4 carries across
// one pass: current_tree, last_seq_seen, last_slot_seen,
// last_key_before_gap (kept here as just its seq component, since the
// tree half is always the current tree), gap_found_for_this_tree.
type scanState struct {
	tree             pubkey.Key
	hasTree          bool
	lastSeq          uint64
	lastSlot         uint64
	lastSeqBeforeGap uint64
	gapFound         bool
}

// Scan walks it in ascending key order and reproduces the exact state
// machine of spec.md §4.4: a gap is any seq that does not immediately
// follow the previous seq seen for the same tree; finalize runs whenever
// the tree changes and once more at the end of the iterator.
func Scan(it RowIterator) (Result, error) {
	var res Result
	var st scanState

	finalize := func() {
		if !st.hasTree {
			return
		}
		res.Truncations = append(res.Truncations, Truncation{Tree: st.tree, UpToSeq: st.lastSeqBeforeGap})
		if st.gapFound {
			res.GappedTrees = append(res.GappedTrees, st.tree)
		} else {
			res.ClearedTrees = append(res.ClearedTrees, st.tree)
		}
	}

	for {
		row, ok, err := it.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}

		if st.hasTree && row.Tree == st.tree && row.Seq != st.lastSeq+1 {
			res.BackfillTasks = append(res.BackfillTasks, BackfillTask{
				Tree: row.Tree, FromSlot: row.Slot, ToSlot: st.lastSlot,
			})
			st.gapFound = true
		}

		if !st.hasTree || row.Tree != st.tree {
			finalize()
			st.tree = row.Tree
			st.hasTree = true
			st.gapFound = false
		}

		if !st.gapFound {
			st.lastSeqBeforeGap = row.Seq
		}

		st.lastSeq = row.Seq
		st.lastSlot = row.Slot
	}

	finalize()
	return res, nil
}
