/*
Package store implements the engine's embedded column-family store over
go.etcd.io/bbolt: typed Put/Merge/BatchGet/WriteBatch/Range/DeleteRange
operations across the column families §4.1 requires (static, dynamic,
owner, authority, collection, leaf, offchain, editions, changelog,
update_seq_idx, tree_seq_idx, trees_gaps, token_accounts, mints,
token_prices).

Bolt has no native associative merge operator, so Merge is realized as:
read the existing encoded value inside the active write transaction,
apply the column family's registered MergeFn, write the result back.
Every operation in one WriteBatch call shares a single Bolt transaction,
so a batch is atomic the way §4.1 requires ("no partial visibility of a
batch") — Bolt's ACID guarantee substitutes for an LSM engine's
multi-column-family atomic batch.

RegisterAssetMergers wires the assetmodel package's merge rules in as
MergeFns via jsonMerge, a small generic adapter that decodes
existing/incoming as JSON, applies the pure combine function, and
re-encodes. keys.go holds the big-endian multi-part key encoders for
changelog, update_seq_idx, and tree_seq_idx.
*/
package store
