package txprocessor

import (
	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// handler produces the store ops a given instruction contributes beyond
// the changelog/update_seq_idx/tree_seq_idx/leaf ops every instruction
// already gets from processInstruction. Table matches §4.3.
type handler func(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error)

var handlers = map[Kind]handler{
	KindMintV1:                 handleMint,
	KindMintToCollectionV1:     handleMint,
	KindTransfer:               handleOwnerChange,
	KindDelegate:               handleOwnerChange,
	KindCancelRedeem:           handleOwnerChange,
	KindRedeem:                 handleLeafOnly,
	KindBurn:                   handleBurn,
	KindDecompressV1:           handleDecompress,
	KindVerifyCreator:          handleVerifyCreator,
	KindUnverifyCreator:        handleVerifyCreator,
	KindVerifyCollection:       handleVerifyCollection,
	KindUnverifyCollection:     handleVerifyCollection,
	KindSetAndVerifyCollection: handleVerifyCollection,
}

// handleMint covers MintV1 and MintToCollectionV1: static put (write-once:
// the Put is only emitted when a prior Get finds no static record, since
// Store.Put itself is unconditional), a dynamic merge establishing
// supply=1/compressed=true/chain data/creators/royalty, an authority put,
// an owner put, and — for MintToCollectionV1 — a collection merge.
func handleMint(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	var ops []store.Op

	static := assetmodel.StaticDetails{
		Pubkey:             assetID,
		SpecificationClass: assetmodel.SpecificationAssetClass(ix.AssetClass),
		SlotCreated:        ix.Slot,
	}
	staticData, err := store.EncodeJSON(static)
	if err != nil {
		return nil, err
	}
	existingStatic, has, err := p.store.Get(store.CFStatic, assetID.Bytes())
	if err != nil {
		return nil, err
	}
	if !has || len(existingStatic) == 0 {
		ops = append(ops, store.PutOp(store.CFStatic, assetID.Bytes(), staticData))
	}

	seq := assetmodel.SeqOf(ix.TreeSeq)
	one := uint64(1)
	creators := make([]assetmodel.Creator, 0, len(ix.Creators))
	for _, c := range ix.Creators {
		creators = append(creators, assetmodel.Creator{Address: c.Address, Share: c.Share, Verified: c.Verified})
	}

	dynamic := assetmodel.DynamicDetails{
		Pubkey:          assetID,
		IsCompressed:    assetmodel.NewField(true, ix.Slot, seq),
		IsCompressible:  assetmodel.NewField(false, ix.Slot, seq),
		Supply:          assetmodel.NewField(&one, ix.Slot, seq),
		Seq:             assetmodel.NewField(seq, ix.Slot, seq),
		ChainDataJSON:   assetmodel.NewField(ix.ChainDataRaw, ix.Slot, seq),
		Creators:        assetmodel.NewField(creators, ix.Slot, seq),
		RoyaltyBasisPts: assetmodel.NewField(ix.RoyaltyBps, ix.Slot, seq),
	}
	dynamicData, err := store.EncodeJSON(dynamic)
	if err != nil {
		return nil, err
	}
	ops = append(ops, store.MergeOp(store.CFDynamic, assetID.Bytes(), dynamicData))

	authority := assetmodel.Authority{Pubkey: assetID, Authority: ix.Authority, SlotUpdated: ix.Slot}
	authorityData, err := store.EncodeJSON(authority)
	if err != nil {
		return nil, err
	}
	ops = append(ops, store.PutOp(store.CFAuthority, assetID.Bytes(), authorityData))

	owner := assetmodel.Ownership{
		Pubkey:           assetID,
		Owner:            ix.Owner,
		Delegate:         ix.Delegate,
		OwnerDelegateSeq: seq,
		SlotUpdated:      ix.Slot,
	}
	ownerData, err := store.EncodeJSON(owner)
	if err != nil {
		return nil, err
	}
	ops = append(ops, store.PutOp(store.CFOwner, assetID.Bytes(), ownerData))

	if ix.Collection != nil {
		collection := assetmodel.CollectionGrouping{
			Pubkey:        assetID,
			Collection:    *ix.Collection,
			IsVerified:    false,
			CollectionSeq: seq,
			SlotUpdated:   ix.Slot,
		}
		collectionData, err := store.EncodeJSON(collection)
		if err != nil {
			return nil, err
		}
		ops = append(ops, store.MergeOp(store.CFCollection, assetID.Bytes(), collectionData))
	}

	return ops, nil
}

// handleOwnerChange covers Transfer, Delegate, and CancelRedeem: all three
// reduce to an owner record merge governed by OwnerDelegateSeq (§4.3).
func handleOwnerChange(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	seq := assetmodel.SeqOf(ix.TreeSeq)
	owner := assetmodel.Ownership{
		Pubkey:           assetID,
		Owner:            ix.Owner,
		Delegate:         ix.Delegate,
		OwnerDelegateSeq: seq,
		SlotUpdated:      ix.Slot,
	}
	data, err := store.EncodeJSON(owner)
	if err != nil {
		return nil, err
	}
	return []store.Op{store.MergeOp(store.CFOwner, assetID.Bytes(), data)}, nil
}

// handleLeafOnly covers Redeem: the leaf merge processInstruction already
// appends is the entire effect, so this handler contributes nothing
// further.
func handleLeafOnly(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	return nil, nil
}

// handleBurn marks an asset burnt and drops its supply to zero at this
// instruction's rank. If no dynamic record exists yet (the burn was
// observed before any mint was indexed, e.g. during backfill replay), a
// skeletal record is created so the monotonic-burn invariant still holds
// once the mint is later merged in (§4.3).
func handleBurn(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	seq := assetmodel.SeqOf(ix.TreeSeq)
	zero := uint64(0)
	dynamic := assetmodel.DynamicDetails{
		Pubkey:  assetID,
		IsBurnt: assetmodel.NewField(true, ix.Slot, seq),
		Supply:  assetmodel.NewField(&zero, ix.Slot, seq),
		Seq:     assetmodel.NewField(seq, ix.Slot, seq),
	}
	data, err := store.EncodeJSON(dynamic)
	if err != nil {
		return nil, err
	}
	return []store.Op{store.MergeOp(store.CFDynamic, assetID.Bytes(), data)}, nil
}

// handleDecompress marks an asset as having left compression. Per §4.2 the
// resulting Seq field becomes None (nil), since after decompression the
// asset is governed by ordinary account writes that carry no per-tree
// sequence; the leaf clearing itself happens in processInstruction's
// leafOps, not here.
func handleDecompress(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	dynamic := assetmodel.DynamicDetails{
		Pubkey:          assetID,
		IsCompressed:    assetmodel.NewField(false, ix.Slot, nil),
		IsCompressible:  assetmodel.NewField(true, ix.Slot, nil),
		WasDecompressed: assetmodel.NewField(true, ix.Slot, nil),
		Seq:             assetmodel.NewField[*assetmodel.Seq](nil, ix.Slot, nil),
	}
	data, err := store.EncodeJSON(dynamic)
	if err != nil {
		return nil, err
	}
	return []store.Op{store.MergeOp(store.CFDynamic, assetID.Bytes(), data)}, nil
}

// handleVerifyCreator covers VerifyCreator and UnverifyCreator: locate the
// matching creator by address in the current creator list and flip only
// that entry's Verified flag, then bump dynamic.Seq so the whole creators
// field's rank advances (§4.3). The creator list itself is read back from
// the store rather than carried on Instruction, since only the flipped
// entry is known by the instruction; everything else must be preserved.
func handleVerifyCreator(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	raw, ok, err := p.store.Get(store.CFDynamic, assetID.Bytes())
	if err != nil {
		return nil, err
	}
	var existing assetmodel.DynamicDetails
	if ok {
		if err := store.DecodeJSON(raw, &existing); err != nil {
			return nil, err
		}
	}

	creators := make([]assetmodel.Creator, len(existing.Creators.Value))
	copy(creators, existing.Creators.Value)
	for i := range creators {
		if creators[i].Address == ix.CreatorToVerify {
			creators[i].Verified = ix.VerifyFlag
			break
		}
	}

	seq := assetmodel.SeqOf(ix.TreeSeq)
	dynamic := assetmodel.DynamicDetails{
		Pubkey:   assetID,
		Creators: assetmodel.NewField(creators, ix.Slot, seq),
		Seq:      assetmodel.NewField(seq, ix.Slot, seq),
	}
	data, err := store.EncodeJSON(dynamic)
	if err != nil {
		return nil, err
	}
	return []store.Op{store.MergeOp(store.CFDynamic, assetID.Bytes(), data)}, nil
}

// handleVerifyCollection covers VerifyCollection, UnverifyCollection, and
// SetAndVerifyCollection: all three reduce to a collection grouping merge
// governed by CollectionSeq (§4.3).
func handleVerifyCollection(p *Processor, ix Instruction, assetID pubkey.Key) ([]store.Op, error) {
	seq := assetmodel.SeqOf(ix.TreeSeq)
	collection := assetmodel.CollectionGrouping{
		Pubkey:        assetID,
		Collection:    ix.CollectionKey,
		IsVerified:    ix.CollectionVerified,
		CollectionSeq: seq,
		SlotUpdated:   ix.Slot,
	}
	data, err := store.EncodeJSON(collection)
	if err != nil {
		return nil, err
	}
	return []store.Op{store.MergeOp(store.CFCollection, assetID.Bytes(), data)}, nil
}
