/*
Package txprocessor projects parsed compressed-NFT program instructions
into embedded-store writes: one changelog row per changelog path node, an
update_seq_idx append under a process-local monotonic global_seq, a
tree_seq_idx append under the instruction's own tree sequence, a leaf
merge (or, for DecompressV1, a direct leaf put), and a per-Kind set of
merges into static/dynamic/owner/authority/collection (handlers.go, one
handler per instruction kind, matching the dispatch table in §4.3 of the
expanded specification).

Recover must be called once at process startup to prime the in-memory
global_seq counter from update_seq_idx's tail so a restart continues the
sequence instead of reusing values.
*/
package txprocessor
