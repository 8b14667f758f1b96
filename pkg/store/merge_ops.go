package store

import (
	"fmt"

	"github.com/aura-indexer/aura/pkg/assetmodel"
)

// jsonMerge builds a MergeFn that decodes existing/incoming as T (zero
// value if existing is absent), applies combine, and re-encodes the
// result. Every column family's merge operator reduces to this shape;
// only combine differs.
func jsonMerge[T any](combine func(existing, incoming T) T) MergeFn {
	return func(existing, incoming []byte) ([]byte, error) {
		var existingVal T
		if existing != nil {
			if err := DecodeJSON(existing, &existingVal); err != nil {
				return nil, fmt.Errorf("decode existing: %w", err)
			}
		}

		var incomingVal T
		if err := DecodeJSON(incoming, &incomingVal); err != nil {
			return nil, fmt.Errorf("decode incoming: %w", err)
		}

		merged := combine(existingVal, incomingVal)
		return EncodeJSON(merged)
	}
}

// RegisterAssetMergers installs the merge operators for every per-asset
// column family backed by an assetmodel merge rule. static uses Put
// (write-once), not Merge, so it has no operator here; callers issue a
// PutOp guarded by a prior Get instead (pkg/txprocessor does this).
func RegisterAssetMergers(s *Store) {
	s.RegisterMerge(CFDynamic, jsonMerge(assetmodel.MergeDynamic))
	s.RegisterMerge(CFOwner, jsonMerge(assetmodel.MergeOwnership))
	s.RegisterMerge(CFAuthority, jsonMerge(assetmodel.MergeAuthority))
	s.RegisterMerge(CFCollection, jsonMerge(assetmodel.MergeCollection))
	s.RegisterMerge(CFLeaf, jsonMerge(assetmodel.MergeLeaf))
}
