// Package read implements the point and search read operations served
// over the embedded store: GetAsset, GetAssetsByOwner,
// GetAssetsByAuthority, GetAssetsByCreator, and GetAssetsByGroup.
//
// A single-asset read is a concurrent batch_get across every per-asset
// column family plus a two-hop follow of the edition address, joined
// with golang.org/x/sync/errgroup; a filtered read first resolves a
// page of pubkeys from pkg/relindex, then assembles each one the same
// way. Assembly tolerates an absent asset by skipping it rather than
// failing the batch, and never reorders the input (or resolved) key
// list.
package read
