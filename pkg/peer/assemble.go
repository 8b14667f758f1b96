package peer

import (
	"errors"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

var errOutsideTree = errors.New("peer: past tree's changelog range")

func seqPtr(s *assetmodel.Seq) *uint64 {
	if s == nil {
		return nil
	}
	v := uint64(*s)
	return &v
}

func wireCreators(cs []assetmodel.Creator) []CreatorWire {
	out := make([]CreatorWire, len(cs))
	for i, c := range cs {
		out[i] = CreatorWire{Address: c.Address, Share: c.Share, Verified: c.Verified}
	}
	return out
}

// assembleComplete reads every column family for asset and flattens
// them into the wire record get_assets_updated_within streams (§4.6):
// every field carries its own (slot, seq), so the record is safe to
// apply through the merge path in any order relative to other records.
func assembleComplete(s *store.Store, asset pubkey.Key) (CompleteAssetDetails, bool, error) {
	key := asset.Bytes()
	out := CompleteAssetDetails{Pubkey: asset}

	var anyPresent bool

	if raw, ok, err := s.Get(store.CFStatic, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		anyPresent = true
		var static assetmodel.StaticDetails
		if err := store.DecodeJSON(raw, &static); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		out.SpecificationAssetClass = int32(static.SpecificationClass)
		out.RoyaltyTargetType = int32(static.RoyaltyTargetType)
		out.SlotCreated = static.SlotCreated
		out.EditionAddress = static.EditionAddress
	}

	if raw, ok, err := s.Get(store.CFDynamic, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		anyPresent = true
		var d assetmodel.DynamicDetails
		if err := store.DecodeJSON(raw, &d); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		out.IsCompressed = DynamicFieldWire[bool]{d.IsCompressed.Value, d.IsCompressed.SlotUpdate, seqPtr(d.IsCompressed.Seq)}
		out.IsCompressible = DynamicFieldWire[bool]{d.IsCompressible.Value, d.IsCompressible.SlotUpdate, seqPtr(d.IsCompressible.Seq)}
		out.IsFrozen = DynamicFieldWire[bool]{d.IsFrozen.Value, d.IsFrozen.SlotUpdate, seqPtr(d.IsFrozen.Seq)}
		out.IsBurnt = DynamicFieldWire[bool]{d.IsBurnt.Value, d.IsBurnt.SlotUpdate, seqPtr(d.IsBurnt.Seq)}
		out.WasDecompressed = DynamicFieldWire[bool]{d.WasDecompressed.Value, d.WasDecompressed.SlotUpdate, seqPtr(d.WasDecompressed.Seq)}
		out.Supply = DynamicFieldWire[*uint64]{d.Supply.Value, d.Supply.SlotUpdate, seqPtr(d.Supply.Seq)}
		out.ChainDataJSON = DynamicFieldWire[[]byte]{d.ChainDataJSON.Value, d.ChainDataJSON.SlotUpdate, seqPtr(d.ChainDataJSON.Seq)}
		out.RoyaltyBasisPts = DynamicFieldWire[uint16]{d.RoyaltyBasisPts.Value, d.RoyaltyBasisPts.SlotUpdate, seqPtr(d.RoyaltyBasisPts.Seq)}
		out.URL = DynamicFieldWire[string]{d.URL.Value, d.URL.SlotUpdate, seqPtr(d.URL.Seq)}
		out.Creators = DynamicFieldWire[[]CreatorWire]{wireCreators(d.Creators.Value), d.Creators.SlotUpdate, seqPtr(d.Creators.Seq)}
		out.AssetSeq = DynamicFieldWire[*uint64]{seqPtr(d.Seq.Value), d.Seq.SlotUpdate, seqPtr(d.Seq.Seq)}
	}

	var treeID pubkey.Key
	if raw, ok, err := s.Get(store.CFLeaf, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		anyPresent = true
		var leaf assetmodel.Leaf
		if err := store.DecodeJSON(raw, &leaf); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		treeID = leaf.TreeID
		seq := leaf.LeafSeq
		out.Leaves = []DynamicFieldWire[LeafWire]{{
			Value: LeafWire{
				TreeID:      leaf.TreeID,
				LeafHash:    leaf.LeafHash,
				Nonce:       leaf.Nonce,
				DataHash:    leaf.DataHash,
				CreatorHash: leaf.CreatorHash,
			},
			SlotUpdated: leaf.SlotUpdated,
			Seq:         seqPtr(&seq),
		}}
	}

	if raw, ok, err := s.Get(store.CFOwner, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		anyPresent = true
		var o assetmodel.Ownership
		if err := store.DecodeJSON(raw, &o); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		out.Owner = OwnerWire{
			Owner:       o.Owner,
			OwnerType:   int32(o.OwnerType),
			Delegate:    o.Delegate,
			SlotUpdated: o.SlotUpdated,
			Seq:         seqPtr(o.OwnerDelegateSeq),
		}
	}

	if raw, ok, err := s.Get(store.CFAuthority, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		var a assetmodel.Authority
		if err := store.DecodeJSON(raw, &a); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		out.Authority = AuthorityWire{Authority: a.Authority, SlotUpdated: a.SlotUpdated}
	}

	if raw, ok, err := s.Get(store.CFCollection, key); err != nil {
		return CompleteAssetDetails{}, false, err
	} else if ok {
		var c assetmodel.CollectionGrouping
		if err := store.DecodeJSON(raw, &c); err != nil {
			return CompleteAssetDetails{}, false, err
		}
		out.Collection = &DynamicFieldWire[CollectionWire]{
			Value:       CollectionWire{Collection: c.Collection, Verified: c.IsVerified},
			SlotUpdated: c.SlotUpdated,
			Seq:         seqPtr(c.CollectionSeq),
		}
	}

	if !treeID.IsZero() {
		var items []ChangelogItemWire
		err := s.Range(store.CFChangelog, store.ChangelogKey(treeID, 0), nil, func(k, v []byte) error {
			if !store.HasTreePrefix(k, treeID) {
				return errOutsideTree
			}
			var entry assetmodel.ChangelogEntry
			if err := store.DecodeJSON(v, &entry); err != nil {
				return nil
			}
			_, nodeIdx, ok := store.DecodeChangelogKey(k)
			if !ok {
				return nil
			}
			items = append(items, ChangelogItemWire{NodeIndex: nodeIdx, LeafIndex: entry.LeafIndex, Seq: entry.Seq, Hash: entry.Hash, Slot: entry.Slot})
			return nil
		})
		if err != nil && !errors.Is(err, errOutsideTree) {
			return CompleteAssetDetails{}, false, err
		}
		out.Changelog = items
	}

	return out, anyPresent, nil
}
