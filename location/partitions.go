package location

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/segcache/segment"
)

// partitionIndex tracks which partitions of a (dataSource, interval, version)
// group are resident, one roaring bitmap per group. Partition numbers are
// small dense integers, which is the layout roaring compresses best.
type partitionIndex struct {
	groups map[string]*roaring.Bitmap
}

func newPartitionIndex() *partitionIndex {
	return &partitionIndex{groups: make(map[string]*roaring.Bitmap)}
}

func groupKey(dataSource string, iv segment.Interval, version string) string {
	return dataSource + "|" + iv.String() + "|" + version
}

func (idx *partitionIndex) add(seg segment.Segment) {
	key := groupKey(seg.DataSource, seg.Interval, seg.Version)
	bm, ok := idx.groups[key]
	if !ok {
		bm = roaring.New()
		idx.groups[key] = bm
	}
	bm.Add(uint32(seg.Partition))
}

func (idx *partitionIndex) remove(seg segment.Segment) {
	key := groupKey(seg.DataSource, seg.Interval, seg.Version)
	bm, ok := idx.groups[key]
	if !ok {
		return
	}
	bm.Remove(uint32(seg.Partition))
	if bm.IsEmpty() {
		delete(idx.groups, key)
	}
}

// partitions returns the resident partition numbers of a group in ascending order.
func (idx *partitionIndex) partitions(dataSource string, iv segment.Interval, version string) []int {
	bm, ok := idx.groups[groupKey(dataSource, iv, version)]
	if !ok {
		return nil
	}
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
