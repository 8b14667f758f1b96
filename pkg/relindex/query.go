package relindex

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aura-indexer/aura/pkg/errkind"
	"github.com/aura-indexer/aura/pkg/pubkey"
)

// Pagination selects one of three modes spec.md §6 allows: page/offset
// (Offset set, Limit bounds the page), keyset (Before/After set, the
// assets table's pubkey column is the sort/tiebreak key), or an opaque
// Cursor equivalent to After. Exactly one of Offset/{Before,After}/Cursor
// should be set; Offset is the zero-value default.
type Pagination struct {
	Limit  int
	Offset int
	Before *pubkey.Key
	After  *pubkey.Key
	Cursor string
}

// EncodeCursor renders a pubkey as the opaque cursor token a caller
// passes back as Pagination.Cursor to resume after it.
func EncodeCursor(k pubkey.Key) string {
	return base64.RawURLEncoding.EncodeToString(k.Bytes())
}

// decodeCursor reverses EncodeCursor.
func decodeCursor(s string) (pubkey.Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return pubkey.Key{}, errkind.Wrap(errkind.InvalidRequest, "relindex: malformed cursor", err)
	}
	k, err := pubkey.FromBytes(raw)
	if err != nil {
		return pubkey.Key{}, errkind.Wrap(errkind.InvalidRequest, "relindex: malformed cursor", err)
	}
	return k, nil
}

func (p Pagination) limit() int {
	if p.Limit <= 0 {
		return 100
	}
	return p.Limit
}

// resolveAfter folds Cursor into After, since a cursor is defined as
// equivalent to after (spec.md §6).
func (p Pagination) resolveAfter() (*pubkey.Key, error) {
	if p.Cursor != "" {
		k, err := decodeCursor(p.Cursor)
		if err != nil {
			return nil, err
		}
		return &k, nil
	}
	return p.After, nil
}

// whereKeyset appends a pubkey keyset predicate to conds/args for
// Before/After pagination and returns the updated slices along with the
// ORDER BY/LIMIT clause to append after the WHERE clause is assembled.
func (p Pagination) whereKeyset(conds []string, args []any) ([]string, []any, string, error) {
	after, err := p.resolveAfter()
	if err != nil {
		return nil, nil, "", err
	}
	if after != nil {
		args = append(args, after.Bytes())
		conds = append(conds, fmt.Sprintf("pubkey > $%d", len(args)))
	}
	if p.Before != nil {
		args = append(args, p.Before.Bytes())
		conds = append(conds, fmt.Sprintf("pubkey < $%d", len(args)))
	}
	order := "ORDER BY pubkey ASC"
	if p.Before != nil && after == nil {
		order = "ORDER BY pubkey DESC"
	}
	return conds, args, order, nil
}

func (s *Synchronizer) queryPubkeys(ctx context.Context, baseCond string, baseArgs []any, p Pagination) ([]pubkey.Key, error) {
	conds := []string{baseCond}
	args := append([]any{}, baseArgs...)

	conds, args, order, err := p.whereKeyset(conds, args)
	if err != nil {
		return nil, err
	}

	limit := p.limit()
	args = append(args, limit)
	limitArg := len(args)

	offsetClause := ""
	if p.Offset > 0 && p.Before == nil && p.After == nil && p.Cursor == "" {
		args = append(args, p.Offset)
		offsetClause = fmt.Sprintf(" OFFSET $%d", len(args))
	}

	query := fmt.Sprintf(
		"SELECT pubkey FROM assets WHERE %s %s LIMIT $%d%s",
		strings.Join(conds, " AND "), order, limitArg, offsetClause,
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errkind.Wrap(errkind.Storage, "relindex: query", err)
	}
	defer rows.Close()

	var out []pubkey.Key
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errkind.Wrap(errkind.Storage, "relindex: scan row", err)
		}
		k, err := pubkey.FromBytes(raw)
		if err != nil {
			return nil, errkind.Wrap(errkind.KeyEncoding, "relindex: malformed pubkey column", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errkind.Wrap(errkind.Storage, "relindex: iterate rows", err)
	}

	// query orders DESC when paging backward via Before alone; restore
	// ascending order for the caller.
	if p.Before != nil && p.After == nil && p.Cursor == "" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// QueryByOwner returns the pubkeys of assets owned by owner.
func (s *Synchronizer) QueryByOwner(ctx context.Context, owner pubkey.Key, p Pagination) ([]pubkey.Key, error) {
	return s.queryPubkeys(ctx, "owner = $1", []any{owner.Bytes()}, p)
}

// QueryByAuthority returns the pubkeys of assets whose update authority
// is authority.
func (s *Synchronizer) QueryByAuthority(ctx context.Context, authority pubkey.Key, p Pagination) ([]pubkey.Key, error) {
	return s.queryPubkeys(ctx, "authority = $1", []any{authority.Bytes()}, p)
}

// QueryByCreator returns the pubkeys of assets listing creator in their
// creators array; onlyVerified additionally requires that entry's
// Verified flag.
func (s *Synchronizer) QueryByCreator(ctx context.Context, creator pubkey.Key, onlyVerified bool, p Pagination) ([]pubkey.Key, error) {
	member := fmt.Sprintf(`[{"Address":%q}]`, creator.String())
	if onlyVerified {
		member = fmt.Sprintf(`[{"Address":%q,"Verified":true}]`, creator.String())
	}
	return s.queryPubkeys(ctx, "creators @> $1::jsonb", []any{member}, p)
}

// QueryByGroup returns the pubkeys of assets whose groupKey/groupValue
// membership matches. Only "collection" is a recognised group key (§6:
// "group keys other than collection return empty"); any other key
// returns an empty, non-error result.
func (s *Synchronizer) QueryByGroup(ctx context.Context, groupKey, groupValue string, p Pagination) ([]pubkey.Key, error) {
	if groupKey != "collection" {
		return nil, nil
	}
	collection, err := pubkey.FromBase58(groupValue)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidRequest, "relindex: malformed collection group value", err)
	}
	return s.queryPubkeys(ctx, "collection = $1 AND collection_verified", []any{collection.Bytes()}, p)
}
