package pubkey

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// Key is a 32-byte public key: an asset id, tree id, owner, delegate,
// authority, creator address, or collection id.
type Key [32]byte

// Zero is the all-zero key, used as the "absent" sentinel for optional
// pubkey fields (delegate, collection, edition address).
var Zero Key

// FromBytes copies b into a Key. It returns an error if b is not
// exactly 32 bytes.
func FromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != len(k) {
		return k, fmt.Errorf("pubkey: invalid length %d, want %d", len(b), len(k))
	}
	copy(k[:], b)
	return k, nil
}

// FromBase58 decodes a base58-encoded pubkey string.
func FromBase58(s string) (Key, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Key{}, fmt.Errorf("pubkey: decode base58: %w", err)
	}
	return FromBytes(b)
}

// MustFromBase58 is FromBase58 for constants and tests; it panics on error.
func MustFromBase58(s string) Key {
	k, err := FromBase58(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String renders the key as base58.
func (k Key) String() string {
	return base58.Encode(k[:])
}

// Hex renders the key as lowercase hex, used in log fields where base58
// is harder to eyeball-diff.
func (k Key) Hex() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns a copy of the underlying 32 bytes.
func (k Key) Bytes() []byte {
	b := make([]byte, len(k))
	copy(b, k[:])
	return b
}

// IsZero reports whether k is the all-zero sentinel.
func (k Key) IsZero() bool {
	return k == Zero
}

// MarshalJSON renders the key as its base58 string, matching the wire
// format peer gap-fill records use for every pubkey field.
func (k Key) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses a base58 string into the key.
func (k *Key) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("pubkey: invalid JSON string %q", data)
	}
	decoded, err := FromBase58(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*k = decoded
	return nil
}

// compressionProgramID is the fixed program id the bubblegum-style
// compression program PDAs are derived under. It is a constant of the
// indexed chain's program, not configuration.
var compressionProgramID = MustFromBase58("BGUMAp9Gq7iTEuiKL2krYhNzcsgw6xf8WBV56WG4C1bW")

// pdaMarker is appended after the program id in every PDA derivation,
// the same position the target chain's derivation reserves for the
// bump seed that pushes the result off the ed25519 curve.
const pdaMarker = byte(0xff)

// maxSeedSize bounds any individual seed fed into DeriveAssetID,
// mirroring the target chain's own per-seed size limit.
const maxSeedSize = 32

// DeriveAssetID computes the compressed-NFT asset id for a given tree
// and leaf index: PDA("asset", tree, leafIndexLE8) under
// compressionProgramID. It is a pure, deterministic function of its
// inputs so replays and backfills always name the same asset for the
// same (tree, leafIndex) pair; this module does not perform the
// on-curve rejection loop a real PDA derivation does, since it only
// needs a byte-exact identifier matching what the indexed program
// emits, not a cryptographically valid point (spec.md §1 Non-goals).
func DeriveAssetID(tree Key, leafIndex uint32) Key {
	seeds := [][]byte{[]byte("asset"), tree[:]}
	for _, seed := range seeds {
		if len(seed) > maxSeedSize {
			panic("pubkey: seed exceeds maxSeedSize")
		}
	}

	leafBuf := make([]byte, 8)
	binary.LittleEndian.PutUint32(leafBuf, leafIndex)

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(leafBuf)
	h.Write(compressionProgramID[:])
	h.Write([]byte("ProgramDerivedAddress"))
	h.Write([]byte{pdaMarker})

	sum := h.Sum(nil)
	var k Key
	copy(k[:], sum)
	return k
}
