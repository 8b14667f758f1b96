package peer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestServerStreamsRecordsClientAppliesThroughMerge(t *testing.T) {
	certDir := writeTestCertDir(t)
	srcStore := newTestStore(t)
	dstStore := newTestStore(t)

	asset := pubkey.Key{11}
	owner := pubkey.Key{12}
	putJSON(t, srcStore, store.CFStatic, asset.Bytes(), assetmodel.StaticDetails{Pubkey: asset, SlotCreated: 5})
	putJSON(t, srcStore, store.CFDynamic, asset.Bytes(), assetmodel.DynamicDetails{
		Pubkey: asset,
		URL:    assetmodel.DynamicField[string]{Value: "https://example.test/c.json", SlotUpdate: 20},
	})
	putJSON(t, srcStore, store.CFOwner, asset.Bytes(), assetmodel.Ownership{Pubkey: asset, Owner: owner, SlotUpdated: 20})
	require.NoError(t, srcStore.Put(store.CFUpdateSeqIdx, store.UpdateSeqKey(1, 20, asset), []byte{}))

	addr := freeTCPAddr(t)
	cfg := config.PeerConfig{ListenAddr: addr, CertDir: certDir, RPCTimeout: 10 * time.Second}

	srv, err := NewServer(srcStore, NewStoreDownloadQueue(srcStore), cfg)
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	waitForListener(t, addr)

	client, err := Dial(addr, dstStore, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := client.PullUpdatedWithin(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, ok, err := dstStore.Get(store.CFOwner, asset.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	var ownership assetmodel.Ownership
	require.NoError(t, store.DecodeJSON(raw, &ownership))
	assert.Equal(t, owner, ownership.Owner)
}

func TestServerDownloadQueueRoundTrip(t *testing.T) {
	certDir := writeTestCertDir(t)
	s := newTestStore(t)
	url := "https://example.test/pending.json"
	putJSON(t, s, store.CFOffchain, []byte(url), assetmodel.OffChainData{URL: url})

	addr := freeTCPAddr(t)
	cfg := config.PeerConfig{ListenAddr: addr, CertDir: certDir, RPCTimeout: 10 * time.Second}

	srv, err := NewServer(s, NewStoreDownloadQueue(s), cfg)
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	waitForListener(t, addr)

	client, err := Dial(addr, s, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	urls, err := client.GetURLsToDownload(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, urls)

	require.NoError(t, client.SubmitDownloadResult(ctx, []DownloadResult{
		{URL: url, Success: &DownloadSuccess{MIME: "application/json", Size: 1}},
	}))

	urls, err = client.GetURLsToDownload(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func waitForListener(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server never started listening on %s", addr)
}
