package assetmodel

import "github.com/aura-indexer/aura/pkg/pubkey"

// StaticDetails is the immutable per-asset record written once, at
// first observation. Subsequent puts must not lower SlotCreated; the
// store only writes this column if it is currently absent (§4.2).
type StaticDetails struct {
	Pubkey            pubkey.Key
	SpecificationClass SpecificationAssetClass
	RoyaltyTargetType RoyaltyTargetType
	SlotCreated       uint64
	EditionAddress    *pubkey.Key
}

// Creator is one entry of an asset's ordered creator list.
type Creator struct {
	Address  pubkey.Key
	Share    uint8
	Verified bool
}

// DynamicDetails holds every mutable per-asset field, each independently
// timestamped and merged under the LWW rule in field.go. Supply is a
// pointer field (optional per §3) distinct from the DynamicField
// wrapper's own optionality of Seq.
type DynamicDetails struct {
	Pubkey pubkey.Key

	IsCompressed     DynamicField[bool]
	IsCompressible   DynamicField[bool]
	IsFrozen         DynamicField[bool]
	IsBurnt          DynamicField[bool]
	WasDecompressed  DynamicField[bool]
	Supply           DynamicField[*uint64]
	Seq              DynamicField[*Seq]
	ChainDataJSON    DynamicField[[]byte]
	Creators         DynamicField[[]Creator]
	RoyaltyBasisPts  DynamicField[uint16]
	URL              DynamicField[string]
}

// Ownership is the owner/delegate record for an asset. OwnerDelegateSeq
// is the tree sequence (for compressed assets) or nil at the moment
// ownership was last set; it governs the merge rule for this whole
// record, not a per-field LWW.
type Ownership struct {
	Pubkey           pubkey.Key
	Owner            pubkey.Key
	OwnerType        OwnerType
	Delegate         *pubkey.Key
	OwnerDelegateSeq *Seq
	SlotUpdated      uint64
}

// Authority is the update-authority record for an asset.
type Authority struct {
	Pubkey      pubkey.Key
	Authority   pubkey.Key
	SlotUpdated uint64
}

// CollectionGrouping is the collection-membership record for an asset.
type CollectionGrouping struct {
	Pubkey        pubkey.Key
	Collection    pubkey.Key
	IsVerified    bool
	CollectionSeq *Seq
	SlotUpdated   uint64
}

// Leaf is the Merkle-tree leaf record for a compressed asset. A
// DecompressV1 instruction replaces this wholesale with a Leaf whose
// fields are all zero (a "null leaf"), per §4.2.
type Leaf struct {
	Pubkey      pubkey.Key
	TreeID      pubkey.Key
	LeafHash    [32]byte
	Nonce       uint64
	DataHash    [32]byte
	CreatorHash [32]byte
	LeafSeq     Seq
	SlotUpdated uint64
}

// ChangelogEntry is one (tree, node_idx) row: the hash at that node
// after the instruction identified by Seq modified the tree, and the
// leaf index the modification concerned (§3: "(tree_id, node_idx) →
// (leaf_idx?, seq, level, hash, slot)"; level is recovered from the
// node_idx's position within a path by the reader, so it is not stored
// redundantly here).
type ChangelogEntry struct {
	LeafIndex uint32
	Seq       uint64
	Hash      [32]byte
	Slot      uint64
}

// OffChainData is keyed by URL, not by asset key, and shared across
// every asset that references that URL (§3 invariant 6).
type OffChainData struct {
	URL          string
	MetadataJSON []byte
	Mutable      bool
}

// EditionKind distinguishes the two token-metadata edition variants this
// engine models; the read path needs no more than these two (§3 of the
// expanded spec: non-goal to model the full edition marker account zoo).
type EditionKind int

const (
	EditionKindMaster EditionKind = iota
	EditionKindEdition
)

// Edition is the tagged union of MasterEdition / EditionV1 described in
// §3. Kind selects which group of fields is meaningful: Master* for
// EditionKindMaster, Parent/EditionNumber for EditionKindEdition.
type Edition struct {
	Key  pubkey.Key
	Kind EditionKind

	// Populated when Kind == EditionKindMaster.
	MasterSupply    uint64
	MasterMaxSupply *uint64

	// Populated when Kind == EditionKindEdition.
	Parent        pubkey.Key
	EditionNumber uint64

	WriteVersion uint64
}
