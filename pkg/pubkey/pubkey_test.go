package pubkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase58RoundTrip(t *testing.T) {
	orig := MustFromBase58("11111111111111111111111111111111")
	parsed, err := FromBase58(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDeriveAssetIDIsDeterministic(t *testing.T) {
	tree := MustFromBase58("11111111111111111111111111111111")

	a := DeriveAssetID(tree, 0)
	b := DeriveAssetID(tree, 0)
	assert.Equal(t, a, b, "PDA derivation must be a pure function of (tree, leafIndex)")

	c := DeriveAssetID(tree, 1)
	assert.NotEqual(t, a, c, "different leaf indices must derive different asset ids")
}

func TestDeriveAssetIDVariesWithTree(t *testing.T) {
	treeA := MustFromBase58("11111111111111111111111111111111")
	treeB := MustFromBase58("So11111111111111111111111111111111111111112")

	assert.NotEqual(t, DeriveAssetID(treeA, 0), DeriveAssetID(treeB, 0),
		"same leaf index under different trees must derive different asset ids")
}

func TestJSONRoundTrip(t *testing.T) {
	orig := MustFromBase58("11111111111111111111111111111111")
	data, err := orig.MarshalJSON()
	require.NoError(t, err)

	var parsed Key
	require.NoError(t, parsed.UnmarshalJSON(data))
	assert.Equal(t, orig, parsed)
}
