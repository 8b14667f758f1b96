package txprocessor

import (
	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// TokenAccount is the sketched, non-compressed account-path input for a
// single-token-account observation (§4.4 of the expanded specification).
// There is no tree for non-compressed assets, so every write here carries
// seq=None and is ordered by Slot alone.
type TokenAccount struct {
	Mint     pubkey.Key
	Owner    pubkey.Key
	Amount   uint64
	IsFrozen bool
	Slot     uint64
}

// MintAccount is the sketched account-path input establishing or updating
// a non-compressed mint's supply.
type MintAccount struct {
	Mint   pubkey.Key
	Supply uint64
	Slot   uint64
}

// ApplyTokenAccount merges a token account observation into the owner
// column family, mirroring the shape of the compressed-NFT owner merge
// but with OwnerType=Token and no tree sequence.
func (p *Processor) ApplyTokenAccount(acct TokenAccount) error {
	owner := assetmodel.Ownership{
		Pubkey:           acct.Mint,
		Owner:            acct.Owner,
		OwnerType:        assetmodel.OwnerTypeToken,
		OwnerDelegateSeq: nil,
		SlotUpdated:      acct.Slot,
	}
	data, err := store.EncodeJSON(owner)
	if err != nil {
		return err
	}

	dynamic := assetmodel.DynamicDetails{
		Pubkey:   acct.Mint,
		IsFrozen: assetmodel.NewField(acct.IsFrozen, acct.Slot, nil),
	}
	dynamicData, err := store.EncodeJSON(dynamic)
	if err != nil {
		return err
	}

	return p.store.WriteBatch([]store.Op{
		store.MergeOp(store.CFOwner, acct.Mint.Bytes(), data),
		store.MergeOp(store.CFDynamic, acct.Mint.Bytes(), dynamicData),
	})
}

// ApplyMintAccount merges a mint account's supply into the dynamic column
// family, the non-compressed analogue of a compressed mint establishing
// supply=1: here supply tracks the mint account's own reported total and
// seq is always None, since the mint account carries no tree sequence.
func (p *Processor) ApplyMintAccount(acct MintAccount) error {
	supply := acct.Supply
	dynamic := assetmodel.DynamicDetails{
		Pubkey:       acct.Mint,
		IsCompressed: assetmodel.NewField(false, acct.Slot, nil),
		Supply:       assetmodel.NewField(&supply, acct.Slot, nil),
	}
	data, err := store.EncodeJSON(dynamic)
	if err != nil {
		return err
	}
	return p.store.Merge(store.CFDynamic, acct.Mint.Bytes(), data)
}
