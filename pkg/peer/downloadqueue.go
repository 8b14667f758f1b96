package peer

import (
	"errors"

	"github.com/aura-indexer/aura/pkg/assetmodel"
	"github.com/aura-indexer/aura/pkg/store"
)

var errQueueBatchFull = errors.New("peer: download queue batch full")

// DownloadQueue hands out off-chain asset URLs for a media fetcher to
// download and records the outcome, backing get_asset_urls_to_download /
// submit_download_result (§6).
type DownloadQueue interface {
	NextURLs(count int) ([]string, error)
	SubmitResult(results []DownloadResult) error
}

// storeDownloadQueue is the default DownloadQueue: it hands out URLs
// from offchain records that have never been fetched (MetadataJSON is
// still empty) and, on success, marks the URL fetched by storing a
// placeholder "{}" MetadataJSON; the downloaded content itself is not
// stored. Failed results are not recorded, so their URLs are handed out
// again.
type storeDownloadQueue struct {
	store *store.Store
}

// NewStoreDownloadQueue creates a DownloadQueue backed by s's off-chain
// column family.
func NewStoreDownloadQueue(s *store.Store) DownloadQueue {
	return &storeDownloadQueue{store: s}
}

func (q *storeDownloadQueue) NextURLs(count int) ([]string, error) {
	var urls []string
	err := q.store.Range(store.CFOffchain, nil, nil, func(key, value []byte) error {
		if len(urls) >= count {
			return errQueueBatchFull
		}
		var data assetmodel.OffChainData
		if err := store.DecodeJSON(value, &data); err != nil {
			return nil
		}
		if len(data.MetadataJSON) == 0 {
			urls = append(urls, string(key))
		}
		return nil
	})
	if err != nil && !errors.Is(err, errQueueBatchFull) {
		return nil, err
	}
	return urls, nil
}

func (q *storeDownloadQueue) SubmitResult(results []DownloadResult) error {
	for _, r := range results {
		if r.Success == nil {
			continue
		}
		data := assetmodel.OffChainData{URL: r.URL, MetadataJSON: []byte("{}"), Mutable: true}
		encoded, err := store.EncodeJSON(data)
		if err != nil {
			return err
		}
		if err := q.store.Put(store.CFOffchain, []byte(r.URL), encoded); err != nil {
			return err
		}
	}
	return nil
}
