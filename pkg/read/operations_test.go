package read

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/relindex"
	"github.com/aura-indexer/aura/pkg/store"
)

func TestReaderGetAssetFoundAndAbsent(t *testing.T) {
	s := newTestStore(t)
	asset := pubkey.Key{1}
	putJSON(t, s, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset, SlotCreated: 3})

	r := NewReader(s, nil)
	got, found, err := r.GetAsset(context.Background(), asset)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(3), got.Static.SlotCreated)

	_, found, err = r.GetAsset(context.Background(), pubkey.Key{99})
	require.NoError(t, err)
	assert.False(t, found)
}

// newTestReader requires a reachable Postgres instance named by
// AURA_TEST_POSTGRES_DSN, mirroring pkg/relindex's own test skip
// pattern, since filtered reads depend on the relational index.
func newTestReader(t *testing.T) (*Reader, *relindex.Synchronizer) {
	t.Helper()
	dsn := os.Getenv("AURA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AURA_TEST_POSTGRES_DSN not set, skipping filtered read test")
	}

	s := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sync, err := relindex.New(ctx, s, config.RelationalConfig{
		DSN:           dsn,
		BatchSize:     100,
		UpsertTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Skipf("could not connect to test Postgres: %v", err)
	}
	t.Cleanup(sync.Close)
	return NewReader(s, sync), sync
}

func TestReaderGetAssetsByOwnerAssemblesResolvedPubkeys(t *testing.T) {
	r, sync := newTestReader(t)
	ctx := context.Background()

	owner := pubkey.Key{42}
	asset := pubkey.Key{43}
	putJSON(t, r.store, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset})
	putJSON(t, r.store, store.CFDynamic, asset.Bytes(), assetmodel.DynamicDetails{Pubkey: asset})
	putJSON(t, r.store, store.CFOwner, asset.Bytes(), assetmodel.Ownership{Pubkey: asset, Owner: owner, SlotUpdated: 1})
	require.NoError(t, r.store.Put(store.CFUpdateSeqIdx, store.UpdateSeqKey(1, 1, asset), []byte{}))

	require.NoError(t, sync.Tick(ctx))

	page, err := r.GetAssetsByOwner(ctx, owner, Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Assets, 1)
	assert.Equal(t, owner, page.Assets[0].Owner.Owner)
}
