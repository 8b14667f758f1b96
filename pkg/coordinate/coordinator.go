package coordinate

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"

	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/log"
)

// Coordinator elects a single leader across a set of replicas via Raft,
// so exactly one of them runs the gap detector and relational
// synchronizer loops at a time. It carries no application log: see
// fsm.go.
type Coordinator struct {
	nodeID string
	raft   *raft.Raft
}

// Bootstrap starts a Raft node rooted at cfg. If cfg.Bootstrap is true it
// bootstraps a cluster whose initial voters are this node and cfg.Peers
// (a cluster that is already bootstrapped is not an error); otherwise the
// node starts as a follower waiting to be added with AddVoter.
func Bootstrap(cfg config.CoordinateConfig) (*Coordinator, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("coordinate: create data dir: %w", err)
	}

	raftCfg := raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(cfg.NodeID)

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("coordinate: resolve bind address: %w", err)
	}
	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("coordinate: create transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("coordinate: create snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-log.db"))
	if err != nil {
		return nil, fmt.Errorf("coordinate: create log store: %w", err)
	}
	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-stable.db"))
	if err != nil {
		return nil, fmt.Errorf("coordinate: create stable store: %w", err)
	}

	r, err := raft.NewRaft(raftCfg, noopFSM{}, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("coordinate: create raft: %w", err)
	}

	c := &Coordinator{nodeID: cfg.NodeID, raft: r}

	if cfg.Bootstrap {
		servers := []raft.Server{{ID: raftCfg.LocalID, Address: transport.LocalAddr()}}
		for _, peer := range cfg.Peers {
			servers = append(servers, raft.Server{ID: raft.ServerID(peer), Address: raft.ServerAddress(peer)})
		}
		future := r.BootstrapCluster(raft.Configuration{Servers: servers})
		if err := future.Error(); err != nil && err != raft.ErrCantBootstrap {
			return nil, fmt.Errorf("coordinate: bootstrap cluster: %w", err)
		}
	}

	log.WithComponent("coordinate").Info().Str("node_id", cfg.NodeID).Bool("bootstrap", cfg.Bootstrap).Msg("raft coordinator started")
	return c, nil
}

// AddVoter adds a peer to the cluster. Only the current leader can do
// this; callers should check IsLeader first.
func (c *Coordinator) AddVoter(nodeID, addr string) error {
	future := c.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 10*time.Second)
	return future.Error()
}

// IsLeader satisfies metrics.Source: reports whether this replica
// currently holds the coordination leader lease.
func (c *Coordinator) IsLeader() bool {
	return c.raft.State() == raft.Leader
}

// LeaderAddr returns the address of the current Raft leader, or "" if
// none is known.
func (c *Coordinator) LeaderAddr() string {
	return string(c.raft.Leader())
}

// Shutdown stops the local Raft node. It does not remove this node from
// the cluster configuration and does not close the bolt log and stable
// stores.
func (c *Coordinator) Shutdown() error {
	return c.raft.Shutdown().Error()
}
