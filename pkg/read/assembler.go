package read

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/metrics"
	"github.com/aura-indexer/aura/pkg/pubkey"
	"github.com/aura-indexer/aura/pkg/store"
)

// decodeEach runs decode over every present raw value from a batch_get,
// leaving absent slots untouched.
func decodeEach[T any](raw [][]byte, found []bool, decode func([]byte) (T, error)) ([]T, []bool, error) {
	out := make([]T, len(raw))
	ok := make([]bool, len(raw))
	for i, present := range found {
		if !present {
			continue
		}
		v, err := decode(raw[i])
		if err != nil {
			return nil, nil, err
		}
		out[i] = v
		ok[i] = true
	}
	return out, ok, nil
}

func decodeJSON[T any](raw []byte) (T, error) {
	var v T
	err := store.DecodeJSON(raw, &v)
	return v, err
}

// Assemble reads every per-asset column family for keys concurrently
// (one goroutine per column family, per §4.7/§4.9), follows the
// edition-address indirection, and returns one *FullAsset per input
// key in the same order; an absent slot (static, dynamic, and owner
// all missing) is nil rather than an error.
func Assemble(ctx context.Context, s *store.Store, keys []pubkey.Key) ([]*FullAsset, error) {
	start := time.Now()
	defer func() {
		metrics.ReadAssembleDuration.WithLabelValues("assemble").Observe(time.Since(start).Seconds())
	}()

	if len(keys) == 0 {
		return nil, nil
	}

	rawKeys := make([][]byte, len(keys))
	for i, k := range keys {
		rawKeys[i] = k.Bytes()
	}

	var (
		statics      []assetmodel.StaticDetails
		staticOK     []bool
		dynamics     []assetmodel.DynamicDetails
		dynamicOK    []bool
		owners       []assetmodel.Ownership
		ownerOK      []bool
		authorities  []assetmodel.Authority
		authorityOK  []bool
		collections  []assetmodel.CollectionGrouping
		collectionOK []bool
		leaves       []assetmodel.Leaf
		leafOK       []bool
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFStatic, rawKeys)
		if err != nil {
			return err
		}
		statics, staticOK, err = decodeEach(raw, found, decodeJSON[assetmodel.StaticDetails])
		return err
	})
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFDynamic, rawKeys)
		if err != nil {
			return err
		}
		dynamics, dynamicOK, err = decodeEach(raw, found, decodeJSON[assetmodel.DynamicDetails])
		return err
	})
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFOwner, rawKeys)
		if err != nil {
			return err
		}
		owners, ownerOK, err = decodeEach(raw, found, decodeJSON[assetmodel.Ownership])
		return err
	})
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFAuthority, rawKeys)
		if err != nil {
			return err
		}
		authorities, authorityOK, err = decodeEach(raw, found, decodeJSON[assetmodel.Authority])
		return err
	})
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFCollection, rawKeys)
		if err != nil {
			return err
		}
		collections, collectionOK, err = decodeEach(raw, found, decodeJSON[assetmodel.CollectionGrouping])
		return err
	})
	g.Go(func() (err error) {
		raw, found, err := s.BatchGet(store.CFLeaf, rawKeys)
		if err != nil {
			return err
		}
		leaves, leafOK, err = decodeEach(raw, found, decodeJSON[assetmodel.Leaf])
		return err
	})
	// CFMints is read here for completeness with spec.md §4.7's seven
	// per-asset column families, but pkg/txprocessor's account path
	// (§4.4 of the expanded specification) never writes it — there is
	// no non-compressed mint-supply record to assemble yet, so this
	// result is intentionally discarded.
	g.Go(func() error {
		_, _, err := s.BatchGet(store.CFMints, rawKeys)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*FullAsset, len(keys))
	for i := range keys {
		if !staticOK[i] && !dynamicOK[i] && !ownerOK[i] {
			continue
		}
		a := &FullAsset{}
		if staticOK[i] {
			a.Static = statics[i]
		}
		if dynamicOK[i] {
			a.Dynamic = dynamics[i]
		}
		if ownerOK[i] {
			a.Owner, a.HasOwner = owners[i], true
		}
		if authorityOK[i] {
			a.Authority, a.HasAuthority = authorities[i], true
		}
		if collectionOK[i] {
			c := collections[i]
			a.Collection = &c
		}
		if leafOK[i] {
			l := leaves[i]
			a.Leaf = &l
		}
		out[i] = a
	}

	if err := attachOffChain(s, out, dynamics, dynamicOK); err != nil {
		return nil, err
	}
	if err := attachEditions(s, out, statics, staticOK); err != nil {
		return nil, err
	}

	return out, nil
}

// attachOffChain batch_gets the off-chain data family, keyed by the
// URLs discovered in the dynamic batch, and attaches each asset's
// metadata document by URL.
func attachOffChain(s *store.Store, out []*FullAsset, dynamics []assetmodel.DynamicDetails, dynamicOK []bool) error {
	seen := make(map[string]int)
	var urls [][]byte
	for i, ok := range dynamicOK {
		if !ok || out[i] == nil {
			continue
		}
		url := dynamics[i].URL.Value
		if url == "" {
			continue
		}
		if _, exists := seen[url]; !exists {
			seen[url] = len(urls)
			urls = append(urls, []byte(url))
		}
	}
	if len(urls) == 0 {
		return nil
	}

	raw, found, err := s.BatchGet(store.CFOffchain, urls)
	if err != nil {
		return err
	}
	docs, docOK, err := decodeEach(raw, found, decodeJSON[assetmodel.OffChainData])
	if err != nil {
		return err
	}

	for i, ok := range dynamicOK {
		if !ok || out[i] == nil {
			continue
		}
		url := dynamics[i].URL.Value
		if url == "" {
			continue
		}
		idx := seen[url]
		if docOK[idx] {
			d := docs[idx]
			out[i].OffChain = &d
		}
	}
	return nil
}

// attachEditions follows spec.md §4.7's two-hop edition assembly: batch_get
// the edition addresses from the static batch, then a second batch_get for
// the MasterEdition parents of any EditionV1 found in the first hop.
func attachEditions(s *store.Store, out []*FullAsset, statics []assetmodel.StaticDetails, staticOK []bool) error {
	addrIndex := make(map[pubkey.Key]int)
	var addrs [][]byte
	for i, ok := range staticOK {
		if !ok || out[i] == nil {
			continue
		}
		addr := statics[i].EditionAddress
		if addr == nil {
			continue
		}
		if _, exists := addrIndex[*addr]; !exists {
			addrIndex[*addr] = len(addrs)
			addrs = append(addrs, addr.Bytes())
		}
	}
	if len(addrs) == 0 {
		return nil
	}

	raw, found, err := s.BatchGet(store.CFEditions, addrs)
	if err != nil {
		return err
	}
	editions, editionOK, err := decodeEach(raw, found, decodeJSON[assetmodel.Edition])
	if err != nil {
		return err
	}

	parentIndex := make(map[pubkey.Key]int)
	var parentAddrs [][]byte
	for idx, ok := range editionOK {
		if !ok || editions[idx].Kind != assetmodel.EditionKindEdition {
			continue
		}
		parent := editions[idx].Parent
		if _, exists := parentIndex[parent]; !exists {
			parentIndex[parent] = len(parentAddrs)
			parentAddrs = append(parentAddrs, parent.Bytes())
		}
	}

	var masters []assetmodel.Edition
	var masterOK []bool
	if len(parentAddrs) > 0 {
		raw, found, err := s.BatchGet(store.CFEditions, parentAddrs)
		if err != nil {
			return err
		}
		masters, masterOK, err = decodeEach(raw, found, decodeJSON[assetmodel.Edition])
		if err != nil {
			return err
		}
	}

	for i, ok := range staticOK {
		if !ok || out[i] == nil {
			continue
		}
		addr := statics[i].EditionAddress
		if addr == nil {
			continue
		}
		idx, exists := addrIndex[*addr]
		if !exists || !editionOK[idx] {
			continue
		}
		ed := editions[idx]

		switch ed.Kind {
		case assetmodel.EditionKindMaster:
			out[i].Edition = &EditionData{Supply: ed.MasterSupply, MaxSupply: ed.MasterMaxSupply}
		case assetmodel.EditionKindEdition:
			pIdx, exists := parentIndex[ed.Parent]
			if !exists || !masterOK[pIdx] {
				continue
			}
			master := masters[pIdx]
			n := ed.EditionNumber
			out[i].Edition = &EditionData{Supply: master.MasterSupply, MaxSupply: master.MasterMaxSupply, EditionNumber: &n}
		}
	}
	return nil
}
