package peer

import (
	"context"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/metrics"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// Client dials a peer's gap-fill server over mTLS and pulls records for
// a slot range, applying each through the same merge operators live
// ingestion uses — safe in any order, since every field carries its own
// (slot, seq) (§4.6).
type Client struct {
	conn  *grpc.ClientConn
	store *store.Store
	cfg   config.PeerConfig
}

// Dial opens an mTLS connection to a peer at addr.
func Dial(addr string, s *store.Store, cfg config.PeerConfig) (*Client, error) {
	tlsCfg, err := clientTLSConfig(cfg.CertDir)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(credentials.NewTLS(tlsCfg)))
	if err != nil {
		return nil, fmt.Errorf("peer: dial %s: %w", addr, err)
	}
	return &Client{conn: conn, store: s, cfg: cfg}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// PullUpdatedWithin streams every asset the peer has touched within
// [fromSlot, toSlot] and applies each record to the local store,
// returning the number of records applied.
func (c *Client) PullUpdatedWithin(ctx context.Context, fromSlot, toSlot uint64) (int, error) {
	start := time.Now()
	var received int
	defer func() {
		metrics.PeerStreamDuration.WithLabelValues("recv").Observe(time.Since(start).Seconds())
		metrics.PeerStreamRecordsTotal.WithLabelValues("recv").Add(float64(received))
	}()

	streamCtx := ctx
	if c.cfg.RPCTimeout > 0 {
		var cancel context.CancelFunc
		streamCtx, cancel = context.WithTimeout(ctx, c.cfg.RPCTimeout)
		defer cancel()
	}

	stream, err := c.conn.NewStream(streamCtx, &serviceDesc.Streams[0], "/"+serviceName+"/"+methodGetAssetsUpdatedWithin)
	if err != nil {
		return 0, fmt.Errorf("peer: open stream: %w", err)
	}

	req := UpdatedWithinRequest{StartSlot: fromSlot, EndSlot: toSlot}
	if err := stream.SendMsg(&req); err != nil {
		return 0, fmt.Errorf("peer: send request: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return 0, fmt.Errorf("peer: close send: %w", err)
	}

	for {
		var record CompleteAssetDetails
		if err := stream.RecvMsg(&record); err != nil {
			if err == io.EOF {
				break
			}
			return received, fmt.Errorf("peer: recv record: %w", err)
		}
		if err := c.applyRecord(record); err != nil {
			return received, err
		}
		received++
	}
	return received, nil
}

// applyRecord merges one complete asset record into every per-asset
// column family it touches, mirroring assembleComplete's read shape in
// reverse.
func (c *Client) applyRecord(r CompleteAssetDetails) error {
	key := r.Pubkey.Bytes()

	static := assetmodel.StaticDetails{
		Pubkey:             r.Pubkey,
		SpecificationClass: assetmodel.SpecificationAssetClass(r.SpecificationAssetClass),
		RoyaltyTargetType:  assetmodel.RoyaltyTargetType(r.RoyaltyTargetType),
		SlotCreated:        r.SlotCreated,
		EditionAddress:     r.EditionAddress,
	}
	if _, ok, err := c.store.Get(store.CFStatic, key); err != nil {
		return err
	} else if !ok {
		data, err := store.EncodeJSON(static)
		if err != nil {
			return err
		}
		if err := c.store.Put(store.CFStatic, key, data); err != nil {
			return err
		}
	}

	var assetSeq *assetmodel.Seq
	if r.AssetSeq.Value != nil {
		seq := assetmodel.Seq(*r.AssetSeq.Value)
		assetSeq = &seq
	}
	seqField := assetmodel.DynamicField[*assetmodel.Seq]{Value: assetSeq, SlotUpdate: r.AssetSeq.SlotUpdated}
	if r.AssetSeq.Seq != nil {
		rank := assetmodel.Seq(*r.AssetSeq.Seq)
		seqField.Seq = &rank
	}

	dynamic := assetmodel.DynamicDetails{
		Pubkey:          r.Pubkey,
		Seq:             seqField,
		IsCompressed:    unwrapField(r.IsCompressed),
		IsCompressible:  unwrapField(r.IsCompressible),
		IsFrozen:        unwrapField(r.IsFrozen),
		IsBurnt:         unwrapField(r.IsBurnt),
		WasDecompressed: unwrapField(r.WasDecompressed),
		Supply:          unwrapField(r.Supply),
		ChainDataJSON:   unwrapField(r.ChainDataJSON),
		RoyaltyBasisPts: unwrapField(r.RoyaltyBasisPts),
		URL:             unwrapField(r.URL),
		Creators:        unwrapField(unwireCreatorsField(r.Creators)),
	}
	if data, err := store.EncodeJSON(dynamic); err != nil {
		return err
	} else if err := c.store.Merge(store.CFDynamic, key, data); err != nil {
		return err
	}

	for _, leafField := range r.Leaves {
		leaf := assetmodel.Leaf{
			Pubkey:      r.Pubkey,
			TreeID:      leafField.Value.TreeID,
			LeafHash:    leafField.Value.LeafHash,
			Nonce:       leafField.Value.Nonce,
			DataHash:    leafField.Value.DataHash,
			CreatorHash: leafField.Value.CreatorHash,
			SlotUpdated: leafField.SlotUpdated,
		}
		if leafField.Seq != nil {
			seq := assetmodel.Seq(*leafField.Seq)
			leaf.LeafSeq = seq
		}
		data, err := store.EncodeJSON(leaf)
		if err != nil {
			return err
		}
		if err := c.store.Merge(store.CFLeaf, key, data); err != nil {
			return err
		}
	}

	owner := assetmodel.Ownership{
		Pubkey:      r.Pubkey,
		Owner:       r.Owner.Owner,
		OwnerType:   assetmodel.OwnerType(r.Owner.OwnerType),
		Delegate:    r.Owner.Delegate,
		SlotUpdated: r.Owner.SlotUpdated,
	}
	if r.Owner.Seq != nil {
		seq := assetmodel.Seq(*r.Owner.Seq)
		owner.OwnerDelegateSeq = &seq
	}
	if data, err := store.EncodeJSON(owner); err != nil {
		return err
	} else if err := c.store.Merge(store.CFOwner, key, data); err != nil {
		return err
	}

	if r.Authority.Authority != (pubkey.Key{}) {
		authority := assetmodel.Authority{Pubkey: r.Pubkey, Authority: r.Authority.Authority, SlotUpdated: r.Authority.SlotUpdated}
		if data, err := store.EncodeJSON(authority); err != nil {
			return err
		} else if err := c.store.Merge(store.CFAuthority, key, data); err != nil {
			return err
		}
	}

	if r.Collection != nil {
		coll := assetmodel.CollectionGrouping{
			Pubkey:      r.Pubkey,
			Collection:  r.Collection.Value.Collection,
			IsVerified:  r.Collection.Value.Verified,
			SlotUpdated: r.Collection.SlotUpdated,
		}
		if r.Collection.Seq != nil {
			seq := assetmodel.Seq(*r.Collection.Seq)
			coll.CollectionSeq = &seq
		}
		if data, err := store.EncodeJSON(coll); err != nil {
			return err
		} else if err := c.store.Merge(store.CFCollection, key, data); err != nil {
			return err
		}
	}

	for _, item := range r.Changelog {
		entry := assetmodel.ChangelogEntry{LeafIndex: item.LeafIndex, Seq: item.Seq, Hash: item.Hash, Slot: item.Slot}
		data, err := store.EncodeJSON(entry)
		if err != nil {
			return err
		}
		if len(r.Leaves) == 0 {
			continue
		}
		tree := r.Leaves[0].Value.TreeID
		if err := c.store.Put(store.CFChangelog, store.ChangelogKey(tree, item.NodeIndex), data); err != nil {
			return err
		}
	}

	return nil
}

func unwrapField[T any](w DynamicFieldWire[T]) assetmodel.DynamicField[T] {
	f := assetmodel.DynamicField[T]{Value: w.Value, SlotUpdate: w.SlotUpdated}
	if w.Seq != nil {
		seq := assetmodel.Seq(*w.Seq)
		f.Seq = &seq
	}
	return f
}

func unwireCreatorsField(w DynamicFieldWire[[]CreatorWire]) DynamicFieldWire[[]assetmodel.Creator] {
	creators := make([]assetmodel.Creator, len(w.Value))
	for i, c := range w.Value {
		creators[i] = assetmodel.Creator{Address: c.Address, Share: c.Share, Verified: c.Verified}
	}
	return DynamicFieldWire[[]assetmodel.Creator]{Value: creators, SlotUpdated: w.SlotUpdated, Seq: w.Seq}
}

// GetURLsToDownload asks the peer for up to count off-chain URLs awaiting
// download.
func (c *Client) GetURLsToDownload(ctx context.Context, count int32) ([]string, error) {
	var resp GetURLsResponse
	err := c.conn.Invoke(ctx, "/"+serviceName+"/"+methodGetURLsToDownload, &GetURLsRequest{Count: count}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.URLs, nil
}

// SubmitDownloadResult reports the outcome of fetching a batch of URLs
// back to the peer.
func (c *Client) SubmitDownloadResult(ctx context.Context, results []DownloadResult) error {
	var resp SubmitDownloadResultResponse
	return c.conn.Invoke(ctx, "/"+serviceName+"/"+methodSubmitDownloadResult, &SubmitDownloadResultRequest{Results: results}, &resp)
}
