package assetmodel

// RankKey is the (seq, slot) pair a merge decision is made on, stripped
// of the field's value type so fields of different T can be compared
// against one another (needed by the monotonic-burn rule below, which
// compares a candidate Supply write's rank against the IsBurnt field's
// rank).
type RankKey struct {
	Seq  *Seq
	Slot uint64
}

// RankOf extracts the ordering key from any DynamicField.
func RankOf[T any](f DynamicField[T]) RankKey {
	return RankKey{Seq: f.Seq, Slot: f.SlotUpdate}
}

// Outranks reports whether k is strictly greater than other under the
// (seq, slot) lexicographic order with None < Some(_).
func (k RankKey) Outranks(other RankKey) bool {
	return rank(k.Seq, k.Slot, other.Seq, other.Slot)
}

// MergeDynamic combines an existing DynamicDetails record with an
// incoming observation. Most fields reduce to the universal scalar LWW
// rule (MergeField); IsBurnt and Supply additionally enforce the
// monotonic-burn invariant, and WasDecompressed is sticky-true. An
// incoming decompress observation (WasDecompressed true) replaces
// IsCompressed, IsCompressible and Seq outright, since its None seq would
// otherwise never outrank the compression-era Some(_) values.
func MergeDynamic(existing, incoming DynamicDetails) DynamicDetails {
	out := DynamicDetails{Pubkey: existing.Pubkey}
	if out.Pubkey.IsZero() {
		out.Pubkey = incoming.Pubkey
	}

	out.IsCompressed = MergeField(existing.IsCompressed, incoming.IsCompressed)
	out.IsCompressible = MergeField(existing.IsCompressible, incoming.IsCompressible)
	out.IsFrozen = MergeField(existing.IsFrozen, incoming.IsFrozen)
	out.Seq = MergeField(existing.Seq, incoming.Seq)
	out.ChainDataJSON = MergeField(existing.ChainDataJSON, incoming.ChainDataJSON)
	out.Creators = MergeField(existing.Creators, incoming.Creators)
	out.RoyaltyBasisPts = MergeField(existing.RoyaltyBasisPts, incoming.RoyaltyBasisPts)
	out.URL = MergeField(existing.URL, incoming.URL)

	if incoming.WasDecompressed.Value {
		out.IsCompressed = incoming.IsCompressed
		out.IsCompressible = incoming.IsCompressible
		out.Seq = incoming.Seq
	}

	out.IsBurnt = MergeField(existing.IsBurnt, incoming.IsBurnt)

	out.WasDecompressed = MergeField(existing.WasDecompressed, incoming.WasDecompressed)
	if existing.WasDecompressed.Value {
		out.WasDecompressed.Value = true
	}

	out.Supply = mergeSupply(existing.Supply, incoming.Supply, out.IsBurnt)

	return out
}

// mergeSupply applies ordinary LWW, then enforces the monotonic-burn
// invariant: once burnt (at the merged IsBurnt field's rank), a supply
// write whose own rank does not exceed the burn event's rank must not
// resurrect supply above zero, even though plain field LWW might
// otherwise have accepted it (each field carries its own independent
// seq/slot, so a stale supply update can still outrank a stale stored
// supply value without outranking the burn).
func mergeSupply(existing, incoming DynamicField[*uint64], mergedBurnt DynamicField[bool]) DynamicField[*uint64] {
	merged := MergeField(existing, incoming)
	if !mergedBurnt.Value {
		return merged
	}

	burnRank := RankOf(mergedBurnt)
	if RankOf(incoming).Outranks(burnRank) {
		return merged
	}
	if merged.Value != nil && *merged.Value != 0 {
		zero := uint64(0)
		return DynamicField[*uint64]{Value: &zero, SlotUpdate: mergedBurnt.SlotUpdate, Seq: mergedBurnt.Seq}
	}
	return merged
}

// MergeStatic writes incoming only if existing is absent: static details
// are write-once per §4.2 ("Implementations may choose to only write if
// absent" — the option this engine takes).
func MergeStatic(existing *StaticDetails, incoming StaticDetails) StaticDetails {
	if existing == nil {
		return incoming
	}
	return *existing
}

// MergeOwnership is governed by OwnerDelegateSeq rather than a per-field
// LWW: the whole record is replaced when incoming's (OwnerDelegateSeq,
// SlotUpdated) outranks existing's.
func MergeOwnership(existing, incoming Ownership) Ownership {
	existingRank := RankKey{Seq: existing.OwnerDelegateSeq, Slot: existing.SlotUpdated}
	incomingRank := RankKey{Seq: incoming.OwnerDelegateSeq, Slot: incoming.SlotUpdated}
	if incomingRank.Outranks(existingRank) {
		return incoming
	}
	return existing
}

// MergeCollection is governed by CollectionSeq the same way MergeOwnership
// is governed by OwnerDelegateSeq.
func MergeCollection(existing, incoming CollectionGrouping) CollectionGrouping {
	existingRank := RankKey{Seq: existing.CollectionSeq, Slot: existing.SlotUpdated}
	incomingRank := RankKey{Seq: incoming.CollectionSeq, Slot: incoming.SlotUpdated}
	if incomingRank.Outranks(existingRank) {
		return incoming
	}
	return existing
}

// MergeLeaf replaces the leaf wholesale when incoming.LeafSeq is strictly
// greater than existing.LeafSeq. DecompressV1's null leaf is written with
// Put, not through this function (§4.2: "Leaf cleared via put").
func MergeLeaf(existing, incoming Leaf) Leaf {
	if incoming.LeafSeq > existing.LeafSeq {
		return incoming
	}
	return existing
}

// MergeAuthority is a plain slot-ordered LWW: authority carries no
// sequence number in §3.
func MergeAuthority(existing, incoming Authority) Authority {
	if incoming.SlotUpdated > existing.SlotUpdated {
		return incoming
	}
	return existing
}
