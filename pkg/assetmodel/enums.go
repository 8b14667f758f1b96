package assetmodel

// SpecificationAssetClass classifies what kind of asset a static record
// describes. Wire values match the peer gap-fill protocol's enum
// exactly, so a future binary-protobuf migration only swaps the codec.
type SpecificationAssetClass int32

const (
	AssetClassUnknown               SpecificationAssetClass = 0
	AssetClassFungibleToken         SpecificationAssetClass = 1
	AssetClassFungibleAsset         SpecificationAssetClass = 2
	AssetClassNft                   SpecificationAssetClass = 3
	AssetClassPrintableNft          SpecificationAssetClass = 4
	AssetClassProgrammableNft       SpecificationAssetClass = 5
	AssetClassPrint                 SpecificationAssetClass = 6
	AssetClassTransferRestrictedNft SpecificationAssetClass = 7
	AssetClassNonTransferableNft    SpecificationAssetClass = 8
	AssetClassIdentityNft           SpecificationAssetClass = 9
	AssetClassMplCoreAsset          SpecificationAssetClass = 10
	AssetClassMplCoreCollection     SpecificationAssetClass = 11
)

// RoyaltyTargetType classifies how royalties are distributed for an asset.
type RoyaltyTargetType int32

const (
	RoyaltyTargetUnknown  RoyaltyTargetType = 0
	RoyaltyTargetCreators RoyaltyTargetType = 1
	RoyaltyTargetFanout   RoyaltyTargetType = 2
	RoyaltyTargetSingle   RoyaltyTargetType = 3
)

// OwnerType classifies who an asset's owner field names.
type OwnerType int32

const (
	OwnerTypeUnknown OwnerType = 0
	OwnerTypeToken   OwnerType = 1
	OwnerTypeSingle  OwnerType = 2
)

// DownloadErrorCode enumerates why an off-chain asset-URL download failed,
// reported back through the download queue's SubmitResult.
type DownloadErrorCode int32

const (
	DownloadNotFound           DownloadErrorCode = 0
	DownloadServerError        DownloadErrorCode = 1
	DownloadNotSupportedFormat DownloadErrorCode = 2
	DownloadTooLarge           DownloadErrorCode = 3
	DownloadTooManyRequests    DownloadErrorCode = 4
	DownloadCorruptedAsset     DownloadErrorCode = 5
)
