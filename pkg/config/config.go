package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine holds the full configuration for one engine process: the
// embedded store, the relational index synchronizer, the sequence-gap
// detector/backfiller, the peer gap-fill streaming server and client,
// and leader coordination.
type Engine struct {
	DataDir string `yaml:"data_dir"`

	Relational RelationalConfig `yaml:"relational"`
	GapScan    GapScanConfig    `yaml:"gap_scan"`
	Backfill   BackfillConfig   `yaml:"backfill"`
	Peer       PeerConfig       `yaml:"peer"`
	Coordinate CoordinateConfig `yaml:"coordinate"`
	Log        LogConfig        `yaml:"log"`
}

// RelationalConfig configures the relational index synchronizer.
type RelationalConfig struct {
	DSN           string        `yaml:"dsn"`
	BatchSize     int           `yaml:"batch_size"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	UpsertTimeout time.Duration `yaml:"upsert_timeout"`
}

// GapScanConfig configures how often the sequence-gap detector sweeps
// tree_seq_idx for each tracked tree.
type GapScanConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// BackfillConfig configures the bounded-retry backoff the backfiller
// uses against its SlotFetcher dependency.
type BackfillConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"`
	MaxAttempts     int           `yaml:"max_attempts"`
}

// PeerConfig configures the peer gap-fill gRPC surface.
type PeerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	ConnectAddrs []string      `yaml:"connect_addrs"`
	CertDir      string        `yaml:"cert_dir"`
	StreamIdle   time.Duration `yaml:"stream_idle"`
	RPCTimeout   time.Duration `yaml:"rpc_timeout"`
}

// CoordinateConfig configures the raft-backed leader election used to
// pick which replica runs the gap detector and synchronizer loops.
type CoordinateConfig struct {
	NodeID    string   `yaml:"node_id"`
	BindAddr  string   `yaml:"bind_addr"`
	DataDir   string   `yaml:"data_dir"`
	Bootstrap bool     `yaml:"bootstrap"`
	Peers     []string `yaml:"peers"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"json_output"`
}

// defaults mirror Load's fallback behavior: zero-value fields are
// filled in after parsing, the way the teacher's manager.Config applies
// defaults before Bootstrap.
const (
	defaultDataDir             = "./data"
	defaultRelationalBatchSize = 1000
	defaultRelationalTick      = 2 * time.Second
	defaultUpsertTimeout       = 30 * time.Second
	defaultGapScanInterval     = 5 * time.Second
	defaultBackfillInitial     = 500 * time.Millisecond
	defaultBackfillMax         = 30 * time.Second
	defaultBackfillElapsed     = 5 * time.Minute
	defaultBackfillAttempts    = 10
	defaultPeerStreamIdle      = 60 * time.Second
	defaultPeerRPCTimeout      = 15 * time.Second
	defaultLogLevel            = "info"
)

// Load reads and parses a YAML config file at path, applying defaults to
// any zero-value field.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Engine
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Engine) {
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.Relational.BatchSize == 0 {
		cfg.Relational.BatchSize = defaultRelationalBatchSize
	}
	if cfg.Relational.TickInterval == 0 {
		cfg.Relational.TickInterval = defaultRelationalTick
	}
	if cfg.Relational.UpsertTimeout == 0 {
		cfg.Relational.UpsertTimeout = defaultUpsertTimeout
	}
	if cfg.GapScan.Interval == 0 {
		cfg.GapScan.Interval = defaultGapScanInterval
	}
	if cfg.Backfill.InitialInterval == 0 {
		cfg.Backfill.InitialInterval = defaultBackfillInitial
	}
	if cfg.Backfill.MaxInterval == 0 {
		cfg.Backfill.MaxInterval = defaultBackfillMax
	}
	if cfg.Backfill.MaxElapsedTime == 0 {
		cfg.Backfill.MaxElapsedTime = defaultBackfillElapsed
	}
	if cfg.Backfill.MaxAttempts == 0 {
		cfg.Backfill.MaxAttempts = defaultBackfillAttempts
	}
	if cfg.Peer.StreamIdle == 0 {
		cfg.Peer.StreamIdle = defaultPeerStreamIdle
	}
	if cfg.Peer.RPCTimeout == 0 {
		cfg.Peer.RPCTimeout = defaultPeerRPCTimeout
	}
	if cfg.Coordinate.DataDir == "" {
		cfg.Coordinate.DataDir = cfg.DataDir + "/raft"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}
