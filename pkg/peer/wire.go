package peer

import "github.com/aura-indexer/aura/pkg/pubkey"

// UpdatedWithinRequest is the single request message of
// GetAssetsUpdatedWithin: recollect every asset touched by an update in
// [StartSlot, EndSlot] (§4.6).
type UpdatedWithinRequest struct {
	StartSlot uint64 `json:"start_slot"`
	EndSlot   uint64 `json:"end_slot"`
}

// DynamicFieldWire mirrors assetmodel.DynamicField[T] on the wire,
// carrying its merge ordering keys explicitly so the receiver can apply
// it through the ordinary LWW merge path regardless of arrival order.
type DynamicFieldWire[T any] struct {
	Value       T      `json:"value"`
	SlotUpdated uint64 `json:"slot_updated"`
	Seq         *uint64 `json:"seq,omitempty"`
}

// CreatorWire is one creator entry as carried on the wire.
type CreatorWire struct {
	Address  pubkey.Key `json:"address"`
	Share    uint8      `json:"share"`
	Verified bool       `json:"verified"`
}

// LeafWire mirrors assetmodel.Leaf for the wire.
type LeafWire struct {
	TreeID      pubkey.Key `json:"tree_id"`
	LeafHash    [32]byte   `json:"leaf_hash"`
	Nonce       uint64     `json:"nonce"`
	DataHash    [32]byte   `json:"data_hash"`
	CreatorHash [32]byte   `json:"creator_hash"`
}

// CollectionWire mirrors assetmodel.CollectionGrouping's value payload.
type CollectionWire struct {
	Collection pubkey.Key `json:"collection"`
	Verified   bool       `json:"verified"`
}

// OwnerWire mirrors assetmodel.Ownership's value payload. Ownership
// merges as a whole-record LWW keyed on (OwnerDelegateSeq, SlotUpdated),
// so every field travels together with that single rank key rather than
// field-by-field as DynamicFieldWire does.
type OwnerWire struct {
	Owner       pubkey.Key  `json:"owner"`
	OwnerType   int32       `json:"owner_type"`
	Delegate    *pubkey.Key `json:"delegate,omitempty"`
	SlotUpdated uint64      `json:"slot_updated"`
	Seq         *uint64     `json:"seq,omitempty"`
}

// AuthorityWire mirrors assetmodel.Authority, a plain slot-ordered LWW
// record with no sequence number.
type AuthorityWire struct {
	Authority   pubkey.Key `json:"authority"`
	SlotUpdated uint64     `json:"slot_updated"`
}

// ChangelogItemWire is one changelog path entry for a compressed asset.
type ChangelogItemWire struct {
	NodeIndex uint64   `json:"node_index"`
	LeafIndex uint32   `json:"leaf_index"`
	Seq       uint64   `json:"seq"`
	Hash      [32]byte `json:"hash"`
	Slot      uint64   `json:"slot"`
}

// EditionWire carries either a master or non-master edition record; Kind
// selects which group of fields applies, matching assetmodel.Edition.
type EditionWire struct {
	Kind            int        `json:"kind"`
	MasterSupply    uint64     `json:"master_supply,omitempty"`
	MasterMaxSupply *uint64    `json:"master_max_supply,omitempty"`
	Parent          pubkey.Key `json:"parent,omitempty"`
	EditionNumber   uint64     `json:"edition_number,omitempty"`
}

// CompleteAssetDetails is the full per-asset record streamed by
// get_assets_updated_within: every column family's current state for one
// asset, each dynamic field carrying its own (slot, seq) ordering keys
// so the receiver applies it exactly as native ingestion would (§4.6).
type CompleteAssetDetails struct {
	Pubkey pubkey.Key `json:"pubkey"`

	SpecificationAssetClass int32      `json:"specification_asset_class"`
	RoyaltyTargetType       int32      `json:"royalty_target_type"`
	SlotCreated             uint64     `json:"slot_created"`
	EditionAddress          *pubkey.Key `json:"edition_address,omitempty"`

	IsCompressed    DynamicFieldWire[bool]        `json:"is_compressed"`
	IsCompressible  DynamicFieldWire[bool]        `json:"is_compressible"`
	IsFrozen        DynamicFieldWire[bool]        `json:"is_frozen"`
	IsBurnt         DynamicFieldWire[bool]        `json:"is_burnt"`
	WasDecompressed DynamicFieldWire[bool]        `json:"was_decompressed"`
	Supply          DynamicFieldWire[*uint64]     `json:"supply"`
	ChainDataJSON   DynamicFieldWire[[]byte]      `json:"chain_data,omitempty"`
	RoyaltyBasisPts DynamicFieldWire[uint16]      `json:"royalty_basis_pts"`
	URL             DynamicFieldWire[string]      `json:"url,omitempty"`
	Creators        DynamicFieldWire[[]CreatorWire] `json:"creators"`
	AssetSeq        DynamicFieldWire[*uint64]     `json:"asset_seq,omitempty"`

	Owner OwnerWire `json:"owner"`

	Authority AuthorityWire `json:"authority"`

	Collection *DynamicFieldWire[CollectionWire] `json:"collection,omitempty"`

	Leaves []DynamicFieldWire[LeafWire] `json:"leaves,omitempty"`

	Changelog []ChangelogItemWire `json:"changelog,omitempty"`

	Edition       *EditionWire `json:"edition,omitempty"`
	MasterEdition *EditionWire `json:"master_edition,omitempty"`
}

// DownloadSuccess is the success payload of one submitted download
// result.
type DownloadSuccess struct {
	MIME string `json:"mime"`
	Size int64  `json:"size"`
}

// DownloadResult is one entry of SubmitDownloadResultRequest: either a
// Success or a FailCode is set, never both.
type DownloadResult struct {
	URL      string           `json:"url"`
	Success  *DownloadSuccess `json:"success,omitempty"`
	FailCode *int32           `json:"fail_code,omitempty"`
}

// GetURLsRequest requests up to Count pending download URLs.
type GetURLsRequest struct {
	Count int32 `json:"count"`
}

// GetURLsResponse lists the URLs handed out for this request.
type GetURLsResponse struct {
	URLs []string `json:"urls"`
}

// SubmitDownloadResultRequest reports the outcome of one or more
// previously handed-out URLs.
type SubmitDownloadResultRequest struct {
	Results []DownloadResult `json:"results"`
}

// SubmitDownloadResultResponse acknowledges a submitted batch.
type SubmitDownloadResultResponse struct{}
