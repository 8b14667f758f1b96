package read

import (
	"context"

	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/relindex"
	"github.com/aura-indexer/aura/pkg/store"
)

// Pagination is relindex's pagination type, re-exported so callers of
// pkg/read never need to import pkg/relindex directly.
type Pagination = relindex.Pagination

// Reader serves the read operations spec.md §6 lists over one embedded
// store, resolving filtered pubkey sets from a relational index
// synchronizer before assembling full results from the store.
type Reader struct {
	store *store.Store
	index *relindex.Synchronizer
}

// NewReader builds a Reader over s for point lookups and idx for
// filtered (owner/authority/creator/group) lookups.
func NewReader(s *store.Store, idx *relindex.Synchronizer) *Reader {
	return &Reader{store: s, index: idx}
}

// GetAsset assembles the full view of a single asset. found is false
// if the asset has never been observed (static, dynamic, and owner
// all absent).
func (r *Reader) GetAsset(ctx context.Context, key pubkey.Key) (*FullAsset, bool, error) {
	assets, err := Assemble(ctx, r.store, []pubkey.Key{key})
	if err != nil {
		return nil, false, err
	}
	if assets[0] == nil {
		return nil, false, nil
	}
	return assets[0], true, nil
}

// page resolves keys via query, assembles them, and drops absent
// slots rather than erroring — a pubkey indexed in the relational
// store but not yet merge-visible in the embedded store (a narrow
// window under eventual consistency, §4.6 of the expanded
// specification) is simply omitted instead of failing the page.
func (r *Reader) page(ctx context.Context, keys []pubkey.Key, err error) (Page, error) {
	if err != nil {
		return Page{}, err
	}
	if len(keys) == 0 {
		return Page{}, nil
	}
	assets, err := Assemble(ctx, r.store, keys)
	if err != nil {
		return Page{}, err
	}
	out := make([]FullAsset, 0, len(assets))
	for _, a := range assets {
		if a != nil {
			out = append(out, *a)
		}
	}
	return Page{Assets: out, NextCursor: relindex.EncodeCursor(keys[len(keys)-1])}, nil
}

// GetAssetsByOwner returns a page of assets owner holds.
func (r *Reader) GetAssetsByOwner(ctx context.Context, owner pubkey.Key, p Pagination) (Page, error) {
	keys, err := r.index.QueryByOwner(ctx, owner, p)
	return r.page(ctx, keys, err)
}

// GetAssetsByAuthority returns a page of assets whose update authority
// is authority.
func (r *Reader) GetAssetsByAuthority(ctx context.Context, authority pubkey.Key, p Pagination) (Page, error) {
	keys, err := r.index.QueryByAuthority(ctx, authority, p)
	return r.page(ctx, keys, err)
}

// GetAssetsByCreator returns a page of assets listing creator in
// their creators array; onlyVerified additionally requires that
// entry's Verified flag.
func (r *Reader) GetAssetsByCreator(ctx context.Context, creator pubkey.Key, onlyVerified bool, p Pagination) (Page, error) {
	keys, err := r.index.QueryByCreator(ctx, creator, onlyVerified, p)
	return r.page(ctx, keys, err)
}

// GetAssetsByGroup returns a page of assets whose groupKey/groupValue
// membership matches. Group keys other than "collection" return an
// empty page rather than an error (spec.md §6).
func (r *Reader) GetAssetsByGroup(ctx context.Context, groupKey, groupValue string, p Pagination) (Page, error) {
	keys, err := r.index.QueryByGroup(ctx, groupKey, groupValue, p)
	return r.page(ctx, keys, err)
}
