package concurrent

import (
	"lintang/nightwalk/pkg/datastructure"
)

// EdgeRange half open range [From, To) of edge index processed by one job.
type EdgeRange struct {
	From int32
	To   int32
}

func NewEdgeRange(from, to int32) EdgeRange {
	return EdgeRange{From: from, To: to}
}

// SplitEdgeRanges splits [0, numEdges) into at most numParts contiguous ranges.
func SplitEdgeRanges(numEdges, numParts int) []EdgeRange {
	if numEdges <= 0 {
		return []EdgeRange{}
	}
	if numParts < 1 {
		numParts = 1
	}
	if numParts > numEdges {
		numParts = numEdges
	}
	size := (numEdges + numParts - 1) / numParts
	ranges := make([]EdgeRange, 0, numParts)
	for from := 0; from < numEdges; from += size {
		to := from + size
		if to > numEdges {
			to = numEdges
		}
		ranges = append(ranges, NewEdgeRange(int32(from), int32(to)))
	}
	return ranges
}

type JobI interface {
	EdgeRange | datastructure.POIKind
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
