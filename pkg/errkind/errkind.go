// Package errkind declares the engine's error taxonomy: a small set of
// sentinel kinds every fallible operation classifies its error as, so
// callers can branch with errors.Is instead of parsing messages.
//
// No third-party error library is used here; the teacher itself never
// reaches for one, wrapping with plain fmt.Errorf("...: %w", err)
// throughout, so this package follows the same convention and only adds
// the sentinel kinds the specification's error taxonomy requires.
package errkind

import "errors"

// Kind is a sentinel error identifying a class of failure. Wrap it with
// fmt.Errorf("...: %w", Kind) (or use Wrap) so errors.Is(err, Kind)
// succeeds for callers that only care about the class.
type Kind error

var (
	// Storage indicates the embedded store (or the relational index)
	// failed to read or write data it otherwise expected to be able to.
	Storage Kind = errors.New("storage error")

	// Decode indicates a stored or wire-received value could not be
	// decoded into its expected shape.
	Decode Kind = errors.New("decode error")

	// NotImplemented indicates an instruction or account kind the
	// transaction processor recognizes but does not yet handle.
	NotImplemented Kind = errors.New("not implemented")

	// MissingPrerequisite indicates an operation requires a record
	// (e.g. an asset's static details) that has not been observed yet,
	// and a skeletal record was or should be created instead.
	MissingPrerequisite Kind = errors.New("missing prerequisite")

	// KeyEncoding indicates a column-family key could not be encoded or
	// decoded (wrong length, invalid tag byte, truncated key).
	KeyEncoding Kind = errors.New("key encoding error")

	// Network indicates an RPC, peer stream, or relational connection
	// failed in a way that is retriable with backoff.
	Network Kind = errors.New("network error")

	// InvalidRequest indicates a read operation was called with
	// parameters that cannot be satisfied (e.g. an unsupported group
	// key, or conflicting pagination parameters).
	InvalidRequest Kind = errors.New("invalid request")
)
