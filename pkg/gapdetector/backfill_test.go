package gapdetector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
	"github.com/aura-indexer/aura/pkg/txprocessor"
)

type fakeFetcher struct {
	bundles map[pubkey.Key][]txprocessor.Bundle
	calls   int
	failN   int // fail this many times before succeeding
}

func (f *fakeFetcher) FetchRange(_ context.Context, tree pubkey.Key, _, _ uint64) ([]txprocessor.Bundle, error) {
	f.calls++
	if f.calls <= f.failN {
		return nil, assert.AnError
	}
	return f.bundles[tree], nil
}

func testBackfillConfig() config.BackfillConfig {
	return config.BackfillConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsedTime:  time.Second,
		MaxAttempts:     5,
	}
}

func TestBackfillerDrainAppliesRecoveredBundleThroughProcessor(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	store.RegisterAssetMergers(s)
	p := txprocessor.New(s)
	require.NoError(t, p.Recover())

	tree := pubkey.Key{5}
	owner := pubkey.Key{6}
	bundle := txprocessor.Bundle{Instructions: []txprocessor.Instruction{
		{
			Kind:      txprocessor.KindMintV1,
			Tree:      tree,
			LeafIndex: 0,
			Slot:      2,
			TreeSeq:   1,
			Owner:     owner,
		},
	}}

	fetcher := &fakeFetcher{bundles: map[pubkey.Key][]txprocessor.Bundle{tree: {bundle}}}
	b := NewBackfiller(fetcher, p, testBackfillConfig())

	task := BackfillTask{Tree: tree, FromSlot: 2, ToSlot: 0}
	err = b.Drain(context.Background(), []BackfillTask{task})
	require.NoError(t, err)

	assetID := pubkey.DeriveAssetID(tree, 0)
	_, ok, err := s.Get(store.CFOwner, assetID.Bytes())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBackfillerRetriesTransientFetchFailures(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	store.RegisterAssetMergers(s)
	p := txprocessor.New(s)
	require.NoError(t, p.Recover())

	tree := pubkey.Key{7}
	fetcher := &fakeFetcher{failN: 2, bundles: map[pubkey.Key][]txprocessor.Bundle{}}
	b := NewBackfiller(fetcher, p, testBackfillConfig())

	err = b.Drain(context.Background(), []BackfillTask{{Tree: tree, FromSlot: 2, ToSlot: 0}})
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls)
}

func TestBackfillerDrainContinuesAfterOneTaskPermanentlyFails(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	store.RegisterAssetMergers(s)
	p := txprocessor.New(s)
	require.NoError(t, p.Recover())

	failing := pubkey.Key{1}
	ok := pubkey.Key{2}
	fetcher := &fakeFetcher{failN: 999, bundles: map[pubkey.Key][]txprocessor.Bundle{}}
	cfg := testBackfillConfig()
	cfg.MaxAttempts = 1
	cfg.MaxElapsedTime = 50 * time.Millisecond
	b := NewBackfiller(fetcher, p, cfg)

	err = b.Drain(context.Background(), []BackfillTask{
		{Tree: failing, FromSlot: 2, ToSlot: 0},
		{Tree: ok, FromSlot: 2, ToSlot: 0},
	})
	assert.Error(t, err)
	assert.Equal(t, 2, fetcher.calls, "the second task is still attempted after the first fails")
}
