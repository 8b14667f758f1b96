package peer

import (
	"context"

	"google.golang.org/grpc"
)

// Service names and method names, used both in the hand-written
// ServiceDesc below and by the client when opening a stream — there is
// no protoc-generated stub naming these for us.
const (
	serviceName = "aura.peer.GapFill"

	methodGetAssetsUpdatedWithin = "GetAssetsUpdatedWithin"
	methodGetURLsToDownload      = "GetAssetURLsToDownload"
	methodSubmitDownloadResult   = "SubmitDownloadResult"
)

// gapFillServer is the interface Server implements; it exists so
// ServiceDesc's handlers can be written once against an interface rather
// than the concrete type, mirroring how a protoc-generated _ServiceDesc
// refers to a server interface.
type gapFillServer interface {
	getAssetsUpdatedWithin(req UpdatedWithinRequest, stream grpc.ServerStream) error
	getAssetURLsToDownload(req GetURLsRequest) (GetURLsResponse, error)
	submitDownloadResult(req SubmitDownloadResultRequest) (SubmitDownloadResultResponse, error)
}

// serviceDesc is the hand-written equivalent of a protoc-generated
// ServiceDesc: one server-streaming method for the gap-fill protocol,
// two unary methods for the asset-URL download queue, all carried over
// the jsonCodec registered in codec.go.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*gapFillServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: methodGetURLsToDownload,
			Handler:    getURLsToDownloadHandler,
		},
		{
			MethodName: methodSubmitDownloadResult,
			Handler:    submitDownloadResultHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    methodGetAssetsUpdatedWithin,
			Handler:       getAssetsUpdatedWithinHandler,
			ServerStreams: true,
		},
	},
	Metadata: "pkg/peer/service.go",
}

func getAssetsUpdatedWithinHandler(srv interface{}, stream grpc.ServerStream) error {
	var req UpdatedWithinRequest
	if err := stream.RecvMsg(&req); err != nil {
		return err
	}
	return srv.(gapFillServer).getAssetsUpdatedWithin(req, stream)
}

func getURLsToDownloadHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var req GetURLsRequest
	if err := dec(&req); err != nil {
		return nil, err
	}
	return srv.(gapFillServer).getAssetURLsToDownload(req)
}

func submitDownloadResultHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var req SubmitDownloadResultRequest
	if err := dec(&req); err != nil {
		return nil, err
	}
	return srv.(gapFillServer).submitDownloadResult(req)
}
