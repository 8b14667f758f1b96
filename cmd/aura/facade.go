package main

import (
	"github.com/aura-indexer/aura/pkg/coordinate"
	"github.com/aura-indexer/aura/pkg/gapdetector"
	"github.com/aura-indexer/aura/pkg/relindex"
)

// sourceFacade composes the three components that together satisfy
// metrics.Source: none of them implements the whole interface alone.
type sourceFacade struct {
	detector *gapdetector.Detector
	sync     *relindex.Synchronizer
	coord    *coordinate.Coordinator
}

func (f sourceFacade) TreesWithGaps() int {
	return f.detector.TreesWithGaps()
}

func (f sourceFacade) IsLeader() bool {
	return f.coord.IsLeader()
}

// CursorLag reports 0 when no relational synchronizer is configured,
// rather than panicking on a nil receiver.
func (f sourceFacade) CursorLag() int64 {
	if f.sync == nil {
		return 0
	}
	return f.sync.CursorLag()
}
