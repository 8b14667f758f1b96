package store

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/aura-indexer/aura/pkg/errkind"
)

// ColumnFamily names one of the engine's typed Bolt buckets. Bolt has no
// native column families, so each one is realized as a top-level bucket
// (§4.1 of the expanded spec: the RocksDB→Bolt adaptation).
type ColumnFamily string

const (
	CFStatic        ColumnFamily = "static"
	CFDynamic       ColumnFamily = "dynamic"
	CFOwner         ColumnFamily = "owner"
	CFAuthority     ColumnFamily = "authority"
	CFCollection    ColumnFamily = "collection"
	CFLeaf          ColumnFamily = "leaf"
	CFOffchain      ColumnFamily = "offchain"
	CFEditions      ColumnFamily = "editions"
	CFChangelog     ColumnFamily = "changelog"
	CFUpdateSeqIdx  ColumnFamily = "update_seq_idx"
	CFTreeSeqIdx    ColumnFamily = "tree_seq_idx"
	CFTreesGaps     ColumnFamily = "trees_gaps"
	CFTokenAccounts ColumnFamily = "token_accounts"
	CFMints         ColumnFamily = "mints"
	CFTokenPrices   ColumnFamily = "token_prices"
)

// allColumnFamilies lists every bucket the store creates at open time,
// matching §4.1's required column family set exactly.
var allColumnFamilies = []ColumnFamily{
	CFStatic, CFDynamic, CFOwner, CFAuthority, CFCollection, CFLeaf,
	CFOffchain, CFEditions, CFChangelog, CFUpdateSeqIdx, CFTreeSeqIdx,
	CFTreesGaps, CFTokenAccounts, CFMints, CFTokenPrices,
}

// MergeFn is a column family's associative merge operator: combine a
// possibly-absent existing encoded value with an incoming encoded value
// into the merged encoded value. It must be a pure function of its
// inputs — no I/O, no shared state — since the store may apply it
// speculatively within a transaction retry.
type MergeFn func(existing []byte, incoming []byte) ([]byte, error)

// Op is one operation in a WriteBatch: either an unconditional Put or a
// Merge through the column family's registered MergeFn.
type Op struct {
	CF     ColumnFamily
	Key    []byte
	Value  []byte
	IsPut  bool // true: Put. false: Merge.
}

// PutOp constructs an unconditional-write Op.
func PutOp(cf ColumnFamily, key, value []byte) Op {
	return Op{CF: cf, Key: key, Value: value, IsPut: true}
}

// MergeOp constructs a merge Op.
func MergeOp(cf ColumnFamily, key, value []byte) Op {
	return Op{CF: cf, Key: key, Value: value, IsPut: false}
}

// Store is the embedded, durable, mergeable key-value store described in
// §4.1, realized over go.etcd.io/bbolt. Bolt provides ACID transactions
// but no associative merge operator, so merge(cf, key, incoming) is
// implemented as: read the existing encoded value inside the active
// write transaction, apply the column's registered MergeFn, and write
// the result back — all operations in one WriteBatch call share a
// single Bolt transaction, giving write_batch its required atomicity.
type Store struct {
	db      *bolt.DB
	mergers map[ColumnFamily]MergeFn
}

// Open opens (creating if absent) the Bolt-backed store rooted at
// dataDir, creating every required column family bucket.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "aura.db")

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, errkind.Wrap(errkind.Storage, "open embedded store", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, cf := range allColumnFamilies {
			if _, err := tx.CreateBucketIfNotExists([]byte(cf)); err != nil {
				return fmt.Errorf("create bucket %s: %w", cf, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errkind.Wrap(errkind.Storage, "create column families", err)
	}

	return &Store{db: db, mergers: make(map[ColumnFamily]MergeFn)}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// RegisterMerge installs the associative merge operator for a column
// family. Must be called before any Merge/WriteBatch touching that
// column family.
func (s *Store) RegisterMerge(cf ColumnFamily, fn MergeFn) {
	s.mergers[cf] = fn
}

// Put writes value unconditionally.
func (s *Store) Put(cf ColumnFamily, key, value []byte) error {
	return s.WriteBatch([]Op{PutOp(cf, key, value)})
}

// Merge combines value with any existing value via cf's registered
// merge operator.
func (s *Store) Merge(cf ColumnFamily, key, value []byte) error {
	return s.WriteBatch([]Op{MergeOp(cf, key, value)})
}

// Get reads a single value, returning ok=false if absent.
func (s *Store) Get(cf ColumnFamily, key []byte) (value []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		v := b.Get(key)
		if v != nil {
			value = append([]byte(nil), v...)
			ok = true
		}
		return nil
	})
	if err != nil {
		return nil, false, errkind.Wrap(errkind.Storage, "get", err)
	}
	return value, ok, nil
}

// BatchGet reads many keys from one column family in a single
// transaction, preserving input order; absent keys yield ok=false at
// their index rather than an error (§4.7's absence-is-not-an-error
// contract one level down).
func (s *Store) BatchGet(cf ColumnFamily, keys [][]byte) ([][]byte, []bool, error) {
	values := make([][]byte, len(keys))
	found := make([]bool, len(keys))

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		for i, k := range keys {
			if v := b.Get(k); v != nil {
				values[i] = append([]byte(nil), v...)
				found[i] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, errkind.Wrap(errkind.Storage, "batch_get", err)
	}
	return values, found, nil
}

// Delete removes a single key from cf. Deleting an absent key is not an
// error.
func (s *Store) Delete(cf ColumnFamily, key []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		return b.Delete(key)
	})
	if err != nil {
		return errkind.Wrap(errkind.Storage, "delete", err)
	}
	return nil
}

// WriteBatch atomically applies every op across however many column
// families they touch, within one Bolt write transaction (§4.1: "no
// partial visibility of a batch").
func (s *Store) WriteBatch(ops []Op) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, op := range ops {
			b := tx.Bucket([]byte(op.CF))
			if b == nil {
				return fmt.Errorf("unknown column family %s", op.CF)
			}

			if op.IsPut {
				if err := b.Put(op.Key, op.Value); err != nil {
					return fmt.Errorf("put %s: %w", op.CF, err)
				}
				continue
			}

			fn, ok := s.mergers[op.CF]
			if !ok {
				return fmt.Errorf("no merge operator registered for column family %s", op.CF)
			}

			existing := b.Get(op.Key)
			merged, err := fn(existing, op.Value)
			if err != nil {
				return fmt.Errorf("merge %s: %w", op.CF, err)
			}
			if err := b.Put(op.Key, merged); err != nil {
				return fmt.Errorf("put merged %s: %w", op.CF, err)
			}
		}
		return nil
	})
	if err != nil {
		return errkind.Wrap(errkind.Storage, "write_batch", err)
	}
	return nil
}

// Last returns cf's greatest key/value pair, or ok=false if cf is empty.
func (s *Store) Last(cf ColumnFamily) (key, value []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		k, v := b.Cursor().Last()
		if k != nil {
			key = append([]byte(nil), k...)
			value = append([]byte(nil), v...)
			ok = true
		}
		return nil
	})
	if err != nil {
		return nil, nil, false, errkind.Wrap(errkind.Storage, "last", err)
	}
	return key, value, ok, nil
}

// RangeFn is called once per key/value pair visited by Range, in key
// order. Returning an error stops iteration.
type RangeFn func(key, value []byte) error

// Range iterates cf's keys in [start, end) order — end may be nil to
// mean "no upper bound" — calling fn for each visited pair.
func (s *Store) Range(cf ColumnFamily, start, end []byte, fn RangeFn) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		c := b.Cursor()
		for k, v := c.Seek(start); k != nil; k, v = c.Next() {
			if end != nil && string(k) >= string(end) {
				break
			}
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errkind.Wrap(errkind.Storage, "range", err)
	}
	return nil
}

// DeleteRange deletes every key in cf within [start, end).
func (s *Store) DeleteRange(cf ColumnFamily, start, end []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cf))
		if b == nil {
			return fmt.Errorf("unknown column family %s", cf)
		}
		c := b.Cursor()
		var toDelete [][]byte
		for k, _ := c.Seek(start); k != nil; k, _ = c.Next() {
			if end != nil && string(k) >= string(end) {
				break
			}
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errkind.Wrap(errkind.Storage, "delete_range", err)
	}
	return nil
}
