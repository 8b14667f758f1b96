package store

import (
	"encoding/json"

	"github.com/golang/snappy"
)

// EncodeJSON marshals v to JSON. This is the encoding every column
// family in this store uses, matching the teacher's storage layer's
// json.Marshal convention rather than a binary format — simplicity over
// wire compactness, since this is an embedded store, not a network
// protocol.
func EncodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeJSON unmarshals JSON bytes into v.
func DecodeJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// CompressBlob snappy-compresses a blob value. No store path calls it:
// offchain and chain_data values are stored as plain JSON by EncodeJSON.
func CompressBlob(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// DecompressBlob reverses CompressBlob.
func DecompressBlob(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
