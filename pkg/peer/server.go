package peer

import (
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/log"
	"github.com/aura-indexer/aura/pkg/metrics"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// Server implements the gap-fill streaming service and the asset-URL
// download queue service over one mTLS gRPC listener.
type Server struct {
	store *store.Store
	queue DownloadQueue
	grpc  *grpc.Server
	cfg   config.PeerConfig
}

var _ gapFillServer = (*Server)(nil)

// NewServer builds a Server and its mTLS-secured grpc.Server, but does
// not start listening; call Serve to do that.
func NewServer(s *store.Store, queue DownloadQueue, cfg config.PeerConfig) (*Server, error) {
	tlsCfg, err := serverTLSConfig(cfg.CertDir)
	if err != nil {
		return nil, err
	}

	srv := &Server{store: s, queue: queue, cfg: cfg}
	srv.grpc = grpc.NewServer(grpc.Creds(credentials.NewTLS(tlsCfg)))
	srv.grpc.RegisterService(&serviceDesc, srv)
	return srv, nil
}

// Serve opens cfg.ListenAddr and blocks serving RPCs until the listener
// or server is closed.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.WithComponent("peer").Info().Str("addr", s.cfg.ListenAddr).Msg("peer gap-fill server listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

func (s *Server) getAssetsUpdatedWithin(req UpdatedWithinRequest, stream grpc.ServerStream) error {
	start := time.Now()
	logger := log.WithComponent("peer")
	var sent int
	defer func() {
		metrics.PeerStreamDuration.WithLabelValues("send").Observe(time.Since(start).Seconds())
		metrics.PeerStreamRecordsTotal.WithLabelValues("send").Add(float64(sent))
	}()

	// update_seq_idx orders by global_seq first, not slot, so a slot
	// range cannot be reached with a start-key seek; every row is
	// visited and filtered here instead.
	seen := make(map[pubkey.Key]struct{})
	err := s.store.Range(store.CFUpdateSeqIdx, nil, nil, func(key, _ []byte) error {
		_, slot, asset, ok := store.DecodeUpdateSeqKey(key)
		if !ok {
			return nil
		}
		if slot > req.EndSlot {
			return nil
		}
		if slot < req.StartSlot {
			return nil
		}
		if _, already := seen[asset]; already {
			return nil
		}
		seen[asset] = struct{}{}

		record, present, err := assembleComplete(s.store, asset)
		if err != nil {
			logger.Warn().Str("asset", asset.String()).Err(err).Msg("skipping record: assemble failed")
			return nil
		}
		if !present {
			return nil
		}
		if err := stream.SendMsg(&record); err != nil {
			return err
		}
		sent++
		return nil
	})
	return err
}

func (s *Server) getAssetURLsToDownload(req GetURLsRequest) (GetURLsResponse, error) {
	urls, err := s.queue.NextURLs(int(req.Count))
	if err != nil {
		return GetURLsResponse{}, err
	}
	return GetURLsResponse{URLs: urls}, nil
}

func (s *Server) submitDownloadResult(req SubmitDownloadResultRequest) (SubmitDownloadResultResponse, error) {
	if err := s.queue.SubmitResult(req.Results); err != nil {
		return SubmitDownloadResultResponse{}, err
	}
	return SubmitDownloadResultResponse{}, nil
}
