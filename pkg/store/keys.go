package store

import (
	"encoding/binary"

	"github.com/aura-indexer/aura/pkg/pubkey"
)

// All multi-part keys use big-endian encoding of their integer parts, so
// lexicographic byte order equals numeric order (§6): range scans over
// changelog, update_seq_idx, and tree_seq_idx rely on this.

func putUint64BE(dst []byte, v uint64) {
	binary.BigEndian.PutUint64(dst, v)
}

// ChangelogKey encodes the (tree_id, node_idx) key for the changelog
// column family.
func ChangelogKey(tree pubkey.Key, nodeIdx uint64) []byte {
	key := make([]byte, 32+8)
	copy(key[:32], tree[:])
	putUint64BE(key[32:], nodeIdx)
	return key
}

// DecodeChangelogKey reverses ChangelogKey.
func DecodeChangelogKey(key []byte) (tree pubkey.Key, nodeIdx uint64, ok bool) {
	if len(key) != 32+8 {
		return pubkey.Key{}, 0, false
	}
	copy(tree[:], key[:32])
	nodeIdx = binary.BigEndian.Uint64(key[32:])
	return tree, nodeIdx, true
}

// UpdateSeqKey encodes the (global_seq, slot, pubkey) key for
// update_seq_idx. Strictly increasing in global_seq process-wide (§3
// invariant 3).
func UpdateSeqKey(globalSeq, slot uint64, asset pubkey.Key) []byte {
	key := make([]byte, 8+8+32)
	putUint64BE(key[0:8], globalSeq)
	putUint64BE(key[8:16], slot)
	copy(key[16:], asset[:])
	return key
}

// DecodeUpdateSeqKey reverses UpdateSeqKey.
func DecodeUpdateSeqKey(key []byte) (globalSeq, slot uint64, asset pubkey.Key, ok bool) {
	if len(key) != 8+8+32 {
		return 0, 0, pubkey.Key{}, false
	}
	globalSeq = binary.BigEndian.Uint64(key[0:8])
	slot = binary.BigEndian.Uint64(key[8:16])
	copy(asset[:], key[16:])
	return globalSeq, slot, asset, true
}

// TreeSeqKey encodes the (tree, seq) key for tree_seq_idx.
func TreeSeqKey(tree pubkey.Key, seq uint64) []byte {
	key := make([]byte, 32+8)
	copy(key[:32], tree[:])
	putUint64BE(key[32:], seq)
	return key
}

// DecodeTreeSeqKey reverses TreeSeqKey.
func DecodeTreeSeqKey(key []byte) (tree pubkey.Key, seq uint64, ok bool) {
	if len(key) != 32+8 {
		return pubkey.Key{}, 0, false
	}
	copy(tree[:], key[:32])
	seq = binary.BigEndian.Uint64(key[32:])
	return tree, seq, true
}

// TreeSeqRangeStart returns the smallest possible key for a given tree in
// tree_seq_idx, used to scope a range scan or prefix delete to one tree.
func TreeSeqRangeStart(tree pubkey.Key) []byte {
	return TreeSeqKey(tree, 0)
}

// HasTreePrefix reports whether key belongs to tree's range in
// tree_seq_idx. Used instead of a byte-range upper bound since seq
// occupies the full uint64 space and a tree boundary is simplest
// expressed as a prefix check.
func HasTreePrefix(key []byte, tree pubkey.Key) bool {
	return len(key) == 32+8 && string(key[:32]) == string(tree[:])
}
