// Package relindex projects the embedded store's per-column-family asset
// state into a relational index, so filtered/paginated reads (by owner,
// by collection, by creator) can be served with SQL instead of a full
// store scan.
//
// Synchronizer.Tick performs one durable-cursor-driven sync pass: load
// the persisted cursor, scan update_seq_idx forward from it in batches,
// assemble one row per touched asset from the store's column families,
// upsert the batch, and advance the cursor only once the upsert commits
// — so a crash mid-tick re-syncs the same batch rather than skipping it.
package relindex
