package read

import (
	"context"
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

func TestAssembleReturnsNilForAbsentAsset(t *testing.T) {
	s := newTestStore(t)
	out, err := Assemble(context.Background(), s, []pubkey.Key{{1}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0])
}

func TestAssemblePreservesInputOrderAcrossPresentAndAbsent(t *testing.T) {
	s := newTestStore(t)
	present := pubkey.Key{1}
	putJSON(t, s, store.CFStatic, present.Bytes(), assetmodel.StaticDetails{Pubkey: present, SlotCreated: 10})

	keys := []pubkey.Key{{9}, present, {8}}
	out, err := Assemble(context.Background(), s, keys)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Nil(t, out[0])
	require.NotNil(t, out[1])
	assert.Equal(t, uint64(10), out[1].Static.SlotCreated)
	assert.Nil(t, out[2])
}

func TestAssembleAttachesOffChainDataByURL(t *testing.T) {
	s := newTestStore(t)
	asset := pubkey.Key{2}
	url := "https://example.test/a.json"
	putJSON(t, s, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset})
	putJSON(t, s, store.CFDynamic, asset.Bytes(), assetmodel.DynamicDetails{
		Pubkey: asset,
		URL:    assetmodel.DynamicField[string]{Value: url, SlotUpdate: 1},
	})
	putJSON(t, s, store.CFOffchain, []byte(url), assetmodel.OffChainData{URL: url, MetadataJSON: []byte(`{"name":"x"}`)})

	out, err := Assemble(context.Background(), s, []pubkey.Key{asset})
	require.NoError(t, err)
	require.NotNil(t, out[0])
	require.NotNil(t, out[0].OffChain)
	assert.Equal(t, []byte(`{"name":"x"}`), out[0].OffChain.MetadataJSON)
}

func TestAssembleTwoHopEditionFollowsParentMaster(t *testing.T) {
	s := newTestStore(t)
	asset := pubkey.Key{3}
	editionAddr := pubkey.Key{4}
	masterAddr := pubkey.Key{5}
	maxSupply := uint64(1000)

	putJSON(t, s, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{
		Pubkey: asset, EditionAddress: &editionAddr,
	})
	putJSON(t, s, store.CFEditions, editionAddr.Bytes(), assetmodel.Edition{
		Key: editionAddr, Kind: assetmodel.EditionKindEdition, Parent: masterAddr, EditionNumber: 7,
	})
	putJSON(t, s, store.CFEditions, masterAddr.Bytes(), assetmodel.Edition{
		Key: masterAddr, Kind: assetmodel.EditionKindMaster, MasterSupply: 500, MasterMaxSupply: &maxSupply,
	})

	out, err := Assemble(context.Background(), s, []pubkey.Key{asset})
	require.NoError(t, err)
	require.NotNil(t, out[0])
	require.NotNil(t, out[0].Edition)
	assert.Equal(t, uint64(500), out[0].Edition.Supply)
	require.NotNil(t, out[0].Edition.MaxSupply)
	assert.Equal(t, uint64(1000), *out[0].Edition.MaxSupply)
	require.NotNil(t, out[0].Edition.EditionNumber)
	assert.Equal(t, uint64(7), *out[0].Edition.EditionNumber)
}

func TestAssembleMasterEditionDirectlyHasNoEditionNumber(t *testing.T) {
	s := newTestStore(t)
	asset := pubkey.Key{6}
	masterAddr := pubkey.Key{7}

	putJSON(t, s, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset, EditionAddress: &masterAddr})
	putJSON(t, s, store.CFEditions, masterAddr.Bytes(), assetmodel.Edition{
		Key: masterAddr, Kind: assetmodel.EditionKindMaster, MasterSupply: 1,
	})

	out, err := Assemble(context.Background(), s, []pubkey.Key{asset})
	require.NoError(t, err)
	require.NotNil(t, out[0])
	require.NotNil(t, out[0].Edition)
	assert.Nil(t, out[0].Edition.EditionNumber)
}
