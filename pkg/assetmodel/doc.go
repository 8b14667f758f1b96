/*
Package assetmodel defines the engine's canonical asset entities —
StaticDetails, DynamicDetails, Ownership, Authority,
CollectionGrouping, Leaf, OffChainData, Edition — and the merge
operators that combine two observations of the same entity under
last-writer-wins ordering.

Every mutable scalar field is wrapped in DynamicField[T]: a value plus
the (slot, seq) pair its merge decision is made on, where a nil seq
sorts below any present seq. MergeField implements that universal rule;
MergeDynamic, MergeOwnership, MergeCollection, MergeLeaf and
MergeStatic implement the handful of entities whose merge rule departs
from plain per-field LWW (monotonic burn, sticky was_decompressed,
whole-record sequencing, write-once).

This package has no knowledge of how entities are encoded or stored;
pkg/store owns that.
*/
package assetmodel
