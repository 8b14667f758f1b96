package gapdetector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/pubkey"
)

type fakeIterator struct {
	rows []Row
	pos  int
}

func (it *fakeIterator) Next() (Row, bool, error) {
	if it.pos >= len(it.rows) {
		return Row{}, false, nil
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true, nil
}

func TestScanEmptyInputProducesNothing(t *testing.T) {
	res, err := Scan(&fakeIterator{})
	require.NoError(t, err)
	assert.Empty(t, res.GappedTrees)
	assert.Empty(t, res.ClearedTrees)
	assert.Empty(t, res.BackfillTasks)
	assert.Empty(t, res.Truncations)
}

func TestScanSingleContiguousTreeHasNoGap(t *testing.T) {
	tree := pubkey.Key{1}
	res, err := Scan(&fakeIterator{rows: []Row{
		{Tree: tree, Seq: 1, Slot: 100},
		{Tree: tree, Seq: 2, Slot: 101},
		{Tree: tree, Seq: 3, Slot: 102},
	}})
	require.NoError(t, err)
	assert.Empty(t, res.BackfillTasks)
	assert.Equal(t, []pubkey.Key{tree}, res.ClearedTrees)
	require.Len(t, res.Truncations, 1)
	assert.Equal(t, Truncation{Tree: tree, UpToSeq: 3}, res.Truncations[0])
}

// TestScanDetectsGapS5 reproduces the specification's literal worked
// example: seq 1 at slot 1, seq 2 at slot 2, then seq 5 at slot 5. The
// jump from 2 to 5 is a gap covering the missing slots (2, 5), reported
// as FromSlot=5 (the row that triggered detection) ToSlot=2 (the last
// contiguous row), and the gap-free prefix up to seq 2 is truncated.
func TestScanDetectsGapS5(t *testing.T) {
	tree := pubkey.Key{9}
	res, err := Scan(&fakeIterator{rows: []Row{
		{Tree: tree, Seq: 1, Slot: 1},
		{Tree: tree, Seq: 2, Slot: 2},
		{Tree: tree, Seq: 5, Slot: 5},
	}})
	require.NoError(t, err)

	require.Len(t, res.BackfillTasks, 1)
	assert.Equal(t, BackfillTask{Tree: tree, FromSlot: 5, ToSlot: 2}, res.BackfillTasks[0])

	require.Len(t, res.Truncations, 1)
	assert.Equal(t, Truncation{Tree: tree, UpToSeq: 2}, res.Truncations[0])

	assert.Equal(t, []pubkey.Key{tree}, res.GappedTrees)
	assert.Empty(t, res.ClearedTrees)
}

func TestScanMultipleGapsInOneTreeEachEmitATask(t *testing.T) {
	tree := pubkey.Key{2}
	res, err := Scan(&fakeIterator{rows: []Row{
		{Tree: tree, Seq: 1, Slot: 10},
		{Tree: tree, Seq: 2, Slot: 20},
		{Tree: tree, Seq: 4, Slot: 40}, // gap: missing seq 3
		{Tree: tree, Seq: 5, Slot: 50},
		{Tree: tree, Seq: 9, Slot: 90}, // gap: missing seq 6-8
	}})
	require.NoError(t, err)

	require.Len(t, res.BackfillTasks, 2)
	assert.Equal(t, BackfillTask{Tree: tree, FromSlot: 40, ToSlot: 20}, res.BackfillTasks[0])
	assert.Equal(t, BackfillTask{Tree: tree, FromSlot: 90, ToSlot: 50}, res.BackfillTasks[1])

	// Once a gap is found the tree stays classified as gapped for the
	// rest of this pass; its verified prefix freezes at the last
	// contiguous seq before the first gap.
	require.Len(t, res.Truncations, 1)
	assert.Equal(t, Truncation{Tree: tree, UpToSeq: 2}, res.Truncations[0])
	assert.Equal(t, []pubkey.Key{tree}, res.GappedTrees)
}

func TestScanTracksMultipleTreesIndependently(t *testing.T) {
	clean := pubkey.Key{1}
	gapped := pubkey.Key{2}
	res, err := Scan(&fakeIterator{rows: []Row{
		{Tree: clean, Seq: 1, Slot: 1},
		{Tree: clean, Seq: 2, Slot: 2},
		{Tree: clean, Seq: 3, Slot: 3},
		{Tree: gapped, Seq: 1, Slot: 100},
		{Tree: gapped, Seq: 3, Slot: 300},
	}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []pubkey.Key{clean}, res.ClearedTrees)
	assert.ElementsMatch(t, []pubkey.Key{gapped}, res.GappedTrees)
	require.Len(t, res.BackfillTasks, 1)
	assert.Equal(t, BackfillTask{Tree: gapped, FromSlot: 300, ToSlot: 100}, res.BackfillTasks[0])
}

func TestScanFirstRowOfATreeIsNeverAGapEvenIfSeqIsNotOne(t *testing.T) {
	tree := pubkey.Key{3}
	res, err := Scan(&fakeIterator{rows: []Row{
		{Tree: tree, Seq: 40, Slot: 400},
		{Tree: tree, Seq: 41, Slot: 401},
	}})
	require.NoError(t, err)
	assert.Empty(t, res.BackfillTasks)
	assert.Equal(t, []pubkey.Key{tree}, res.ClearedTrees)
}
