package relindex

import (
	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// assetRow is one flattened relational index record, assembled from an
// asset's static, dynamic, owner, authority, and collection column
// families as of the update_seq_idx entry that triggered its sync.
type assetRow struct {
	Pubkey             pubkey.Key
	SlotCreated        uint64
	SlotUpdated        uint64
	AssetClass         int32
	Owner              []byte
	OwnerType          int32
	Delegate           []byte
	Collection         []byte
	CollectionVerified bool
	Creators           []assetmodel.Creator
	Authority          []byte
	IsBurnt            bool
	IsCompressed       bool
	IsFrozen           bool
	Supply             *uint64
	RoyaltyBasisPts    uint16
	MetadataURL        string
}

// assembleRow reads every per-asset column family for asset and flattens
// them into one row. A column family with no record for asset yet (the
// asset was observed by one instruction kind but not others) simply
// leaves that row's fields at their zero value rather than erroring —
// the row is re-upserted as later instructions fill in the rest.
func (s *Synchronizer) assembleRow(asset pubkey.Key, slot uint64) (assetRow, error) {
	row := assetRow{Pubkey: asset, SlotUpdated: slot}
	key := asset.Bytes()

	if raw, ok, err := s.store.Get(store.CFStatic, key); err != nil {
		return assetRow{}, err
	} else if ok {
		var static assetmodel.StaticDetails
		if err := store.DecodeJSON(raw, &static); err != nil {
			return assetRow{}, err
		}
		row.SlotCreated = static.SlotCreated
		row.AssetClass = int32(static.SpecificationClass)
	}

	if raw, ok, err := s.store.Get(store.CFDynamic, key); err != nil {
		return assetRow{}, err
	} else if ok {
		var dynamic assetmodel.DynamicDetails
		if err := store.DecodeJSON(raw, &dynamic); err != nil {
			return assetRow{}, err
		}
		row.IsBurnt = dynamic.IsBurnt.Value
		row.IsCompressed = dynamic.IsCompressed.Value
		row.IsFrozen = dynamic.IsFrozen.Value
		row.Supply = dynamic.Supply.Value
		row.RoyaltyBasisPts = dynamic.RoyaltyBasisPts.Value
		row.MetadataURL = dynamic.URL.Value
		row.Creators = dynamic.Creators.Value
	}

	if raw, ok, err := s.store.Get(store.CFOwner, key); err != nil {
		return assetRow{}, err
	} else if ok {
		var ownership assetmodel.Ownership
		if err := store.DecodeJSON(raw, &ownership); err != nil {
			return assetRow{}, err
		}
		row.Owner = ownership.Owner.Bytes()
		row.OwnerType = int32(ownership.OwnerType)
		if ownership.Delegate != nil {
			row.Delegate = ownership.Delegate.Bytes()
		}
	}

	if raw, ok, err := s.store.Get(store.CFAuthority, key); err != nil {
		return assetRow{}, err
	} else if ok {
		var authority assetmodel.Authority
		if err := store.DecodeJSON(raw, &authority); err != nil {
			return assetRow{}, err
		}
		row.Authority = authority.Authority.Bytes()
	}

	if raw, ok, err := s.store.Get(store.CFCollection, key); err != nil {
		return assetRow{}, err
	} else if ok {
		var grouping assetmodel.CollectionGrouping
		if err := store.DecodeJSON(raw, &grouping); err != nil {
			return assetRow{}, err
		}
		row.Collection = grouping.Collection.Bytes()
		row.CollectionVerified = grouping.IsVerified
	}

	return row, nil
}
