package peer

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is registered as "proto" — the content-subtype grpc-go
// falls back to whenever a call sets no explicit CallContentSubtype —
// so every RPC on this server and client uses this codec without
// requiring a protoc-generated stub or per-call option. There is no
// .proto schema anywhere in this package; wire messages are the plain
// Go structs in wire.go, marshaled as JSON.
const jsonCodecName = "proto"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
