// Package coordinate picks which replica of a multi-node deployment
// runs the exclusive-owner loops — the sequence-gap scanner and the
// relational index synchronizer's tick — via Raft leader election.
//
// Asset data itself never flows through the Raft log: it lives in each
// replica's own embedded store and converges via the merge-ordered
// peer gap-fill protocol in pkg/peer. Raft here elects a leader and
// nothing else, so the FSM that backs it is intentionally a no-op: it
// accepts and immediately discards every entry, existing only to give
// hashicorp/raft a log to commit to and a leader to elect.
package coordinate
