package relindex

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-indexer/aura/pkg/config"
	"github.com/aura-indexer/aura/pkg/errkind"
	"github.com/aura-indexer/aura/pkg/log"
	"github.com/aura-indexer/aura/pkg/metrics"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_cursor (
	id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	global_seq bigint NOT NULL DEFAULT 0
);
INSERT INTO sync_cursor (id, global_seq) VALUES (1, 0) ON CONFLICT (id) DO NOTHING;

CREATE TABLE IF NOT EXISTS assets (
	pubkey bytea PRIMARY KEY,
	slot_created bigint NOT NULL DEFAULT 0,
	slot_updated bigint NOT NULL DEFAULT 0,
	asset_class int NOT NULL DEFAULT 0,
	owner bytea,
	owner_type int NOT NULL DEFAULT 0,
	delegate bytea,
	collection bytea,
	collection_verified boolean NOT NULL DEFAULT false,
	creators jsonb,
	authority bytea,
	is_burnt boolean NOT NULL DEFAULT false,
	is_compressed boolean NOT NULL DEFAULT false,
	is_frozen boolean NOT NULL DEFAULT false,
	supply bigint,
	royalty_basis_pts int NOT NULL DEFAULT 0,
	metadata_url text
);
CREATE INDEX IF NOT EXISTS assets_owner_idx ON assets (owner);
CREATE INDEX IF NOT EXISTS assets_authority_idx ON assets (authority);
CREATE INDEX IF NOT EXISTS assets_collection_idx ON assets (collection) WHERE collection_verified;
`

const upsertSQL = `
INSERT INTO assets (
	pubkey, slot_created, slot_updated, asset_class,
	owner, owner_type, delegate,
	collection, collection_verified, creators,
	authority, is_burnt, is_compressed, is_frozen,
	supply, royalty_basis_pts, metadata_url
) VALUES (
	$1, $2, $3, $4,
	$5, $6, $7,
	$8, $9, $10,
	$11, $12, $13, $14,
	$15, $16, $17
)
ON CONFLICT (pubkey) DO UPDATE SET
	slot_created = GREATEST(assets.slot_created, EXCLUDED.slot_created),
	slot_updated = EXCLUDED.slot_updated,
	asset_class = EXCLUDED.asset_class,
	owner = EXCLUDED.owner,
	owner_type = EXCLUDED.owner_type,
	delegate = EXCLUDED.delegate,
	collection = EXCLUDED.collection,
	collection_verified = EXCLUDED.collection_verified,
	creators = EXCLUDED.creators,
	authority = EXCLUDED.authority,
	is_burnt = EXCLUDED.is_burnt,
	is_compressed = EXCLUDED.is_compressed,
	is_frozen = EXCLUDED.is_frozen,
	supply = EXCLUDED.supply,
	royalty_basis_pts = EXCLUDED.royalty_basis_pts,
	metadata_url = EXCLUDED.metadata_url`

var errBatchFull = errors.New("relindex: batch full")

// Synchronizer projects the embedded store's update_seq_idx tail into the
// assets table of a Postgres-backed relational index, resuming from a
// durable cursor on restart (§4.5).
type Synchronizer struct {
	pool  *pgxpool.Pool
	store *store.Store
	cfg   config.RelationalConfig

	cursor atomic.Uint64
}

// New opens the relational index connection pool, ensures its schema
// exists, and loads the persisted cursor.
func New(ctx context.Context, s *store.Store, cfg config.RelationalConfig) (*Synchronizer, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, errkind.Wrap(errkind.Storage, "relindex: connect", err)
	}

	sync := &Synchronizer{pool: pool, store: s, cfg: cfg}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, errkind.Wrap(errkind.Storage, "relindex: ensure schema", err)
	}

	var seq uint64
	if err := pool.QueryRow(ctx, "SELECT global_seq FROM sync_cursor WHERE id = 1").Scan(&seq); err != nil {
		pool.Close()
		return nil, errkind.Wrap(errkind.Storage, "relindex: load cursor", err)
	}
	sync.cursor.Store(seq)

	return sync, nil
}

// Close releases the connection pool.
func (s *Synchronizer) Close() {
	s.pool.Close()
}

// CursorLag satisfies metrics.Source: the gap between the store's latest
// global_seq and this synchronizer's persisted cursor.
func (s *Synchronizer) CursorLag() int64 {
	tip, err := s.tipSeq()
	if err != nil {
		return 0
	}
	lag := int64(tip) - int64(s.cursor.Load())
	if lag < 0 {
		return 0
	}
	return lag
}

func (s *Synchronizer) tipSeq() (uint64, error) {
	key, _, ok, err := s.store.Last(store.CFUpdateSeqIdx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	seq, _, _, decodeOk := store.DecodeUpdateSeqKey(key)
	if !decodeOk {
		return 0, errkind.Wrap(errkind.KeyEncoding, "relindex: malformed update_seq_idx tail key", nil)
	}
	return seq, nil
}

// Tick performs one sync pass: scan update_seq_idx forward from the
// cursor in batches of at most cfg.BatchSize rows, assemble and upsert
// them, then persist the new cursor — all inside one Postgres
// transaction, so a crash between the upsert and the cursor write
// re-syncs the same batch rather than silently skipping it.
func (s *Synchronizer) Tick(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.SyncBatchDuration.Observe(time.Since(start).Seconds())
	}()

	cursor := s.cursor.Load()
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	type seen struct {
		asset pubkey.Key
		slot  uint64
		seq   uint64
	}
	var touched []seen

	startKey := store.UpdateSeqKey(cursor+1, 0, pubkey.Key{})
	err := s.store.Range(store.CFUpdateSeqIdx, startKey, nil, func(key, _ []byte) error {
		if len(touched) >= batchSize {
			return errBatchFull
		}
		seq, slot, asset, ok := store.DecodeUpdateSeqKey(key)
		if !ok {
			return nil
		}
		touched = append(touched, seen{asset: asset, slot: slot, seq: seq})
		return nil
	})
	if err != nil && !errors.Is(err, errBatchFull) {
		return errkind.Wrap(errkind.Storage, "relindex: scan update_seq_idx", err)
	}
	if len(touched) == 0 {
		return nil
	}

	rows := make([]assetRow, 0, len(touched))
	for _, t := range touched {
		row, err := s.assembleRow(t.asset, t.slot)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	maxSeq := touched[len(touched)-1].seq
	if err := s.upsertBatch(ctx, rows, maxSeq); err != nil {
		return err
	}

	s.cursor.Store(maxSeq)
	metrics.SyncRowsTotal.Add(float64(len(rows)))
	log.WithComponent("relindex").Debug().
		Int("rows", len(rows)).
		Uint64("cursor", maxSeq).
		Msg("sync tick committed")
	return nil
}

func (s *Synchronizer) upsertBatch(ctx context.Context, rows []assetRow, newCursor uint64) error {
	upsertCtx, cancel := context.WithTimeout(ctx, s.cfg.UpsertTimeout)
	defer cancel()

	tx, err := s.pool.Begin(upsertCtx)
	if err != nil {
		return errkind.Wrap(errkind.Storage, "relindex: begin tx", err)
	}
	defer tx.Rollback(upsertCtx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, row := range rows {
		creatorsJSON, err := json.Marshal(row.Creators)
		if err != nil {
			return errkind.Wrap(errkind.Decode, "relindex: encode creators", err)
		}
		batch.Queue(upsertSQL,
			row.Pubkey.Bytes(), row.SlotCreated, row.SlotUpdated, row.AssetClass,
			row.Owner, row.OwnerType, row.Delegate,
			row.Collection, row.CollectionVerified, creatorsJSON,
			row.Authority, row.IsBurnt, row.IsCompressed, row.IsFrozen,
			row.Supply, row.RoyaltyBasisPts, row.MetadataURL,
		)
	}

	br := tx.SendBatch(upsertCtx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return errkind.Wrap(errkind.Storage, "relindex: upsert asset row", err)
		}
	}
	if err := br.Close(); err != nil {
		return errkind.Wrap(errkind.Storage, "relindex: close batch results", err)
	}

	if _, err := tx.Exec(upsertCtx, "UPDATE sync_cursor SET global_seq = $1 WHERE id = 1", newCursor); err != nil {
		return errkind.Wrap(errkind.Storage, "relindex: persist cursor", err)
	}

	if err := tx.Commit(upsertCtx); err != nil {
		return errkind.Wrap(errkind.Storage, "relindex: commit tx", err)
	}
	return nil
}
