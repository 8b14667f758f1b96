package read

import "github.com/aura-indexer/aura/pkg/assetmodel"

// EditionData is the flattened edition view spec.md §4.7 describes: for
// an EditionV1, Supply/MaxSupply come from its parent MasterEdition and
// EditionNumber is set; for a MasterEdition directly, EditionNumber is
// nil.
type EditionData struct {
	Supply        uint64
	MaxSupply     *uint64
	EditionNumber *uint64
}

// FullAsset is the assembled view of one asset across every column
// family, the shape GetAsset and every filtered read operation return.
type FullAsset struct {
	Static       assetmodel.StaticDetails
	Dynamic      assetmodel.DynamicDetails
	Owner        assetmodel.Ownership
	HasOwner     bool
	Authority    assetmodel.Authority
	HasAuthority bool
	Collection   *assetmodel.CollectionGrouping
	Leaf         *assetmodel.Leaf
	OffChain     *assetmodel.OffChainData
	Edition      *EditionData
}

// Page is one page of a filtered read operation: the assembled assets
// in the order their pubkeys were resolved, plus the cursor to pass
// back as Pagination.Cursor to continue.
type Page struct {
	Assets     []FullAsset
	NextCursor string
}
