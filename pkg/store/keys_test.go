package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/pubkey"
)

func TestUpdateSeqKeyOrdersByGlobalSeqThenSlotThenAsset(t *testing.T) {
	asset := pubkey.Key{1}
	k1 := UpdateSeqKey(1, 999, asset)
	k2 := UpdateSeqKey(2, 0, asset)
	assert.True(t, string(k1) < string(k2), "global_seq dominates slot in key order")
}

func TestUpdateSeqKeyRoundTrip(t *testing.T) {
	asset := pubkey.Key{9, 9, 9}
	key := UpdateSeqKey(42, 100, asset)

	gotSeq, gotSlot, gotAsset, ok := DecodeUpdateSeqKey(key)
	require.True(t, ok)
	assert.Equal(t, uint64(42), gotSeq)
	assert.Equal(t, uint64(100), gotSlot)
	assert.Equal(t, asset, gotAsset)
}

func TestTreeSeqKeyRoundTrip(t *testing.T) {
	tree := pubkey.Key{5, 5, 5}
	key := TreeSeqKey(tree, 7)

	gotTree, gotSeq, ok := DecodeTreeSeqKey(key)
	require.True(t, ok)
	assert.Equal(t, tree, gotTree)
	assert.Equal(t, uint64(7), gotSeq)
}

func TestHasTreePrefix(t *testing.T) {
	treeA := pubkey.Key{1}
	treeB := pubkey.Key{2}

	key := TreeSeqKey(treeA, 3)
	assert.True(t, HasTreePrefix(key, treeA))
	assert.False(t, HasTreePrefix(key, treeB))
}
