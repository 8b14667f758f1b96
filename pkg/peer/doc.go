// Package peer implements the gap-fill streaming protocol nodes use to
// recover slot ranges from one another, plus the off-chain download
// queue RPCs, over a single hand-written gRPC service.
//
// There is no protoc-generated stub here: codec.go registers a plain
// JSON codec under the name "proto", the content-subtype grpc-go falls
// back to for any call that sets no explicit CallContentSubtype, and
// service.go hand-writes the grpc.ServiceDesc a protoc-generated
// _grpc.pb.go would otherwise produce. Wire messages are the ordinary
// Go structs in wire.go.
//
// Server streams CompleteAssetDetails records assembled by assemble.go;
// Client applies each received record back through the same merge
// operators pkg/store's column families use for live ingestion, so
// recovery is safe regardless of delivery order.
package peer
