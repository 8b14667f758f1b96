package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	store.RegisterAssetMergers(s)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func putJSON(t *testing.T, s *store.Store, cf store.ColumnFamily, key []byte, v interface{}) {
	t.Helper()
	data, err := store.EncodeJSON(v)
	require.NoError(t, err)
	require.NoError(t, s.Put(cf, key, data))
}

func TestAssembleCompleteReadsEveryColumnFamily(t *testing.T) {
	s := newTestStore(t)
	asset := pubkey.Key{1}
	tree := pubkey.Key{2}
	owner := pubkey.Key{3}

	putJSON(t, s, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{
		Pubkey:             asset,
		SpecificationClass: assetmodel.AssetClassNft,
		SlotCreated:        100,
	})
	putJSON(t, s, store.CFDynamic, asset.Bytes(), assetmodel.DynamicDetails{
		Pubkey: asset,
		URL:    assetmodel.DynamicField[string]{Value: "https://example.test/a.json", SlotUpdate: 101},
	})
	putJSON(t, s, store.CFLeaf, asset.Bytes(), assetmodel.Leaf{
		Pubkey: asset, TreeID: tree, Nonce: 7, LeafSeq: 3, SlotUpdated: 102,
	})
	putJSON(t, s, store.CFOwner, asset.Bytes(), assetmodel.Ownership{
		Pubkey: asset, Owner: owner, SlotUpdated: 103,
	})
	putJSON(t, s, store.CFChangelog, store.ChangelogKey(tree, 0), assetmodel.ChangelogEntry{Seq: 3, Slot: 102})
	putJSON(t, s, store.CFChangelog, store.ChangelogKey(tree, 1), assetmodel.ChangelogEntry{Seq: 3, Slot: 102})

	otherTree := pubkey.Key{9}
	putJSON(t, s, store.CFChangelog, store.ChangelogKey(otherTree, 0), assetmodel.ChangelogEntry{Seq: 1, Slot: 1})

	record, present, err := assembleComplete(s, asset)
	require.NoError(t, err)
	require.True(t, present)

	assert.Equal(t, uint64(100), record.SlotCreated)
	assert.Equal(t, "https://example.test/a.json", record.URL.Value)
	assert.Equal(t, owner, record.Owner.Owner)
	require.Len(t, record.Leaves, 1)
	assert.Equal(t, tree, record.Leaves[0].Value.TreeID)
	assert.Len(t, record.Changelog, 2, "must not leak rows from another tree's changelog range")
}

func TestAssembleCompleteAbsentAssetIsNotPresent(t *testing.T) {
	s := newTestStore(t)
	_, present, err := assembleComplete(s, pubkey.Key{42})
	require.NoError(t, err)
	assert.False(t, present)
}

func TestApplyRecordRoundTripsThroughMergePath(t *testing.T) {
	src := newTestStore(t)
	dst := newTestStore(t)

	asset := pubkey.Key{5}
	owner := pubkey.Key{6}
	putJSON(t, src, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset, SlotCreated: 1})
	putJSON(t, src, store.CFDynamic, asset.Bytes(), assetmodel.DynamicDetails{
		Pubkey: asset,
		URL:    assetmodel.DynamicField[string]{Value: "https://example.test/b.json", SlotUpdate: 5},
	})
	putJSON(t, src, store.CFOwner, asset.Bytes(), assetmodel.Ownership{Pubkey: asset, Owner: owner, SlotUpdated: 5})

	record, present, err := assembleComplete(src, asset)
	require.NoError(t, err)
	require.True(t, present)

	client := &Client{store: dst}
	require.NoError(t, client.applyRecord(record))

	raw, ok, err := dst.Get(store.CFDynamic, asset.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	var dynamic assetmodel.DynamicDetails
	require.NoError(t, store.DecodeJSON(raw, &dynamic))
	assert.Equal(t, "https://example.test/b.json", dynamic.URL.Value)

	raw, ok, err = dst.Get(store.CFOwner, asset.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	var ownership assetmodel.Ownership
	require.NoError(t, store.DecodeJSON(raw, &ownership))
	assert.Equal(t, owner, ownership.Owner)
}

func TestApplyRecordStaleOwnerDoesNotOverwriteNewer(t *testing.T) {
	dst := newTestStore(t)
	asset := pubkey.Key{7}
	newOwner := pubkey.Key{8}
	staleOwner := pubkey.Key{9}

	putJSON(t, dst, store.CFOwner, asset.Bytes(), assetmodel.Ownership{Pubkey: asset, Owner: newOwner, SlotUpdated: 50})

	client := &Client{store: dst}
	require.NoError(t, client.applyRecord(CompleteAssetDetails{
		Pubkey: asset,
		Owner:  OwnerWire{Owner: staleOwner, SlotUpdated: 10},
	}))

	raw, ok, err := dst.Get(store.CFOwner, asset.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	var ownership assetmodel.Ownership
	require.NoError(t, store.DecodeJSON(raw, &ownership))
	assert.Equal(t, newOwner, ownership.Owner, "merge must keep the higher-slot owner")
}
