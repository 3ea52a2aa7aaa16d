package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segcache/internal/disk"
	"github.com/hupe1980/segcache/segment"
)

// bigDisk reports a filesystem large enough to never bound Available().
func bigDisk(string) (disk.Info, error) {
	return disk.Info{Total: 1 << 40, Free: 1 << 40}, nil
}

func testSegment(t *testing.T, partition int, size int64) segment.Segment {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	return segment.Segment{
		DataSource: "events",
		Interval:   segment.Interval{Start: start, End: start.Add(time.Hour)},
		Version:    "v1",
		Partition:  partition,
		Size:       size,
	}
}

func TestAvailable_ConfiguredHeadroom(t *testing.T) {
	loc := New(Config{Path: t.TempDir(), MaxSize: 100, DiskUsage: bigDisk})
	require.Equal(t, int64(100), loc.Available())

	loc.AddSegment(testSegment(t, 0, 40))
	require.Equal(t, int64(60), loc.Available())
	require.Equal(t, int64(40), loc.Used())
}

func TestAvailable_BoundedByDiskReserve(t *testing.T) {
	// Filesystem of 1000 bytes with 100 free and a 5% reserve: only 50 bytes
	// are effectively available even though the budget says 1000.
	loc := New(Config{
		Path:              t.TempDir(),
		MaxSize:           1000,
		FreeSpaceFraction: 0.05,
		DiskUsage: func(string) (disk.Info, error) {
			return disk.Info{Total: 1000, Free: 100}, nil
		},
	})
	require.Equal(t, int64(50), loc.Available())
}

func TestAvailable_DiskErrorFallsBackToBudget(t *testing.T) {
	loc := New(Config{
		Path:    t.TempDir(),
		MaxSize: 100,
		DiskUsage: func(string) (disk.Info, error) {
			return disk.Info{}, errDisk
		},
	})
	require.Equal(t, int64(100), loc.Available())
}

var errDisk = &diskError{}

type diskError struct{}

func (*diskError) Error() string { return "disk gone" }

func TestCanHandle(t *testing.T) {
	loc := New(Config{Path: t.TempDir(), MaxSize: 100, DiskUsage: bigDisk})

	require.True(t, loc.CanHandle(testSegment(t, 0, 100)))
	require.False(t, loc.CanHandle(testSegment(t, 0, 101)))

	loc.AddSegment(testSegment(t, 0, 60))
	require.False(t, loc.CanHandle(testSegment(t, 1, 50)))
	require.True(t, loc.CanHandle(testSegment(t, 1, 40)))
}

func TestAddSegment_Idempotent(t *testing.T) {
	loc := New(Config{Path: t.TempDir(), MaxSize: 100, DiskUsage: bigDisk})
	seg := testSegment(t, 0, 30)

	loc.AddSegment(seg)
	loc.AddSegment(seg)

	require.Equal(t, int64(30), loc.Used())
	require.Equal(t, 1, loc.ResidentCount())
}

func TestRemoveSegment(t *testing.T) {
	loc := New(Config{Path: t.TempDir(), MaxSize: 100, DiskUsage: bigDisk})
	seg := testSegment(t, 0, 30)

	loc.AddSegment(seg)
	loc.RemoveSegment(seg)

	require.Equal(t, int64(0), loc.Used())
	require.False(t, loc.IsResident(seg.ID()))

	// Removing something never added is a no-op, not a negative counter.
	loc.RemoveSegment(testSegment(t, 7, 50))
	require.Equal(t, int64(0), loc.Used())
}

func TestResidentPartitions(t *testing.T) {
	loc := New(Config{Path: t.TempDir(), MaxSize: 1000, DiskUsage: bigDisk})

	loc.AddSegment(testSegment(t, 2, 10))
	loc.AddSegment(testSegment(t, 0, 10))
	loc.AddSegment(testSegment(t, 5, 10))

	seg := testSegment(t, 0, 10)
	got := loc.ResidentPartitions(seg.DataSource, seg.Interval, seg.Version)
	require.Equal(t, []int{0, 2, 5}, got)

	loc.RemoveSegment(testSegment(t, 2, 10))
	got = loc.ResidentPartitions(seg.DataSource, seg.Interval, seg.Version)
	require.Equal(t, []int{0, 5}, got)

	// Unknown group yields nil.
	require.Nil(t, loc.ResidentPartitions("other", seg.Interval, "v1"))
}
