package concurrent

import (
	"sort"
	"testing"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func TestSplitEdgeRanges(t *testing.T) {
	ranges := SplitEdgeRanges(10, 3)
	assert.Equal(t, []EdgeRange{{0, 4}, {4, 8}, {8, 10}}, ranges)

	assert.Equal(t, []EdgeRange{{0, 1}, {1, 2}}, SplitEdgeRanges(2, 8))
	assert.Empty(t, SplitEdgeRanges(0, 4))
	assert.Equal(t, []EdgeRange{{0, 5}}, SplitEdgeRanges(5, 0))
}

func TestWorkerPoolEdgeRanges(t *testing.T) {
	ranges := SplitEdgeRanges(1000, 16)
	wp := NewWorkerPool[EdgeRange, int](4, len(ranges))
	wp.Start(func(r EdgeRange) int {
		return int(r.To - r.From)
	})
	for _, r := range ranges {
		wp.AddJob(r)
	}
	wp.Close()

	total := 0
	for _, n := range wp.Wait() {
		total += n
	}
	assert.Equal(t, 1000, total)
}

func TestWorkerPoolPOIKinds(t *testing.T) {
	wp := NewWorkerPool[datastructure.POIKind, string](len(datastructure.LiveKinds), len(datastructure.LiveKinds))
	wp.Start(func(k datastructure.POIKind) string {
		return string(k)
	})
	for _, k := range datastructure.LiveKinds {
		wp.AddJob(k)
	}
	wp.Close()

	got := wp.Wait()
	sort.Strings(got)
	assert.Equal(t, []string{"convenience_store", "police_post", "street_lamp"}, got)
}

func TestWorkerPoolCollectResultsClosed(t *testing.T) {
	wp := NewWorkerPool[EdgeRange, int32](2, 4)
	wp.Start(func(r EdgeRange) int32 {
		return r.To
	})
	wp.AddJob(NewEdgeRange(0, 3))
	wp.AddJob(NewEdgeRange(3, 7))
	wp.Close()

	sum := int32(0)
	for v := range wp.CollectResults() {
		sum += v
	}
	assert.Equal(t, int32(10), sum)
	// channel sudah closed, Wait langsung return kosong
	assert.Empty(t, wp.Wait())
}
