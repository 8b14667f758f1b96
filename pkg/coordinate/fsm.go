package coordinate

import (
	"io"

	"github.com/hashicorp/raft"
)

// noopFSM is the Raft finite state machine backing leader election only:
// no application state is derived from the log, so every method is a
// no-op (the system overview table: coordination is "leader election
// so exactly one replica runs the gap detector and synchronizer loops
// at a time" — nothing more).
type noopFSM struct{}

func (noopFSM) Apply(*raft.Log) interface{} { return nil }

func (noopFSM) Snapshot() (raft.FSMSnapshot, error) { return noopSnapshot{}, nil }

func (noopFSM) Restore(rc io.ReadCloser) error { return rc.Close() }

type noopSnapshot struct{}

func (noopSnapshot) Persist(sink raft.SnapshotSink) error { return sink.Close() }

func (noopSnapshot) Release() {}
