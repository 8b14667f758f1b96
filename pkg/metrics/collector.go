package metrics

import "time"

// Source supplies the point-in-time values the Collector samples
// periodically. The gap detector, the relational index synchronizer, and
// the coordination package each implement the subset of methods they can
// answer; a Collector is wired to whichever concrete types a process
// constructs, so the interface is small and every method is optional in
// spirit even though Go requires the full set to satisfy it.
type Source interface {
	// TreesWithGaps returns the current count of trees marked as gapped.
	TreesWithGaps() int
	// IsLeader reports whether this replica currently holds the
	// coordination leader lease.
	IsLeader() bool
	// CursorLag returns the difference between the latest known global
	// sequence and the relational synchronizer's persisted cursor.
	CursorLag() int64
}

// Collector periodically samples a Source and updates the corresponding
// gauges.
type Collector struct {
	source Source
	stopCh chan struct{}
}

// NewCollector creates a collector sampling src every interval.
func NewCollector(src Source) *Collector {
	return &Collector{
		source: src,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic sampling in a background goroutine.
func (c *Collector) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts periodic sampling.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	TreesWithGaps.Set(float64(c.source.TreesWithGaps()))
	SyncCursorLag.Set(float64(c.source.CursorLag()))

	if c.source.IsLeader() {
		RaftLeader.Set(1)
	} else {
		RaftLeader.Set(0)
	}
}
