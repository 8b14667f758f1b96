package txprocessor

import "github.com/aura-indexer/aura/pkg/pubkey"

// Kind identifies which compressed-NFT program instruction an
// Instruction carries (§4.3).
type Kind int

const (
	KindMintV1 Kind = iota
	KindMintToCollectionV1
	KindTransfer
	KindDelegate
	KindBurn
	KindRedeem
	KindCancelRedeem
	KindDecompressV1
	KindVerifyCreator
	KindUnverifyCreator
	KindVerifyCollection
	KindUnverifyCollection
	KindSetAndVerifyCollection
)

func (k Kind) String() string {
	switch k {
	case KindMintV1:
		return "MintV1"
	case KindMintToCollectionV1:
		return "MintToCollectionV1"
	case KindTransfer:
		return "Transfer"
	case KindDelegate:
		return "Delegate"
	case KindBurn:
		return "Burn"
	case KindRedeem:
		return "Redeem"
	case KindCancelRedeem:
		return "CancelRedeem"
	case KindDecompressV1:
		return "DecompressV1"
	case KindVerifyCreator:
		return "VerifyCreator"
	case KindUnverifyCreator:
		return "UnverifyCreator"
	case KindVerifyCollection:
		return "VerifyCollection"
	case KindUnverifyCollection:
		return "UnverifyCollection"
	case KindSetAndVerifyCollection:
		return "SetAndVerifyCollection"
	default:
		return "Unknown"
	}
}

// CreatorInput is a creator entry as carried on the wire for MintV1 /
// MintToCollectionV1, before any verification instruction has run.
type CreatorInput struct {
	Address  pubkey.Key
	Share    uint8
	Verified bool
}

// Instruction is one parsed compressed-NFT program instruction within a
// transaction bundle. Not every field is meaningful for every Kind; see
// the per-kind handler in handlers.go for which fields it reads.
type Instruction struct {
	Kind Kind

	Tree      pubkey.Key
	LeafIndex uint32
	Slot      uint64
	TreeSeq   uint64 // the compression program's per-tree sequence for this instruction, i.e. cl.seq

	// Leaf fields (new leaf state after this instruction).
	LeafHash    [32]byte
	Nonce       uint64
	DataHash    [32]byte
	CreatorHash [32]byte

	// Ownership.
	Owner    pubkey.Key
	Delegate *pubkey.Key

	// Mint payload.
	AssetClass   int32 // assetmodel.SpecificationAssetClass, kept as int32 here to avoid an import cycle with the wire layer
	RoyaltyBps   uint16
	ChainDataRaw []byte
	Creators     []CreatorInput
	Authority    pubkey.Key
	Collection   *pubkey.Key

	// VerifyCreator / UnverifyCreator payload.
	CreatorToVerify pubkey.Key
	VerifyFlag      bool

	// *VerifyCollection family payload.
	CollectionKey      pubkey.Key
	CollectionVerified bool

	// ChangelogPath carries the per-level (depth, hash) pairs the
	// transaction emitted for this tree modification, oldest (leaf)
	// first. Every instruction that touches a tree produces one.
	ChangelogPath []ChangelogNode
}

// ChangelogNode is one level of a changelog path: the hash at that depth
// after this instruction's modification.
type ChangelogNode struct {
	NodeIndex uint64
	Hash      [32]byte
}

// Bundle is an ordered sequence of instructions observed in a single
// transaction; instructions within a bundle are applied in source order
// (§5).
type Bundle struct {
	Instructions []Instruction
}
