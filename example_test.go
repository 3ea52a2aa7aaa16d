package segcache_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hupe1980/segcache"
	"github.com/hupe1980/segcache/blobstore"
	"github.com/hupe1980/segcache/location"
	"github.com/hupe1980/segcache/segment"
)

func Example() {
	ctx := context.Background()

	// Deep storage: here a local directory, in production s3.Store or
	// minio.Store behind the same Puller.
	deep, err := os.MkdirTemp("", "deep")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(deep)

	cacheDir, err := os.MkdirTemp("", "cache")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(cacheDir)

	seg := segment.Segment{
		DataSource: "wikipedia",
		Interval: segment.Interval{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Version:   "v1",
		Partition: 0,
		Size:      5,
		LoadSpec:  segment.LoadSpec{"type": "local", "path": "wikipedia/part_0"},
	}

	// Publish the segment's single object to deep storage.
	if err := os.MkdirAll(deep+"/wikipedia/part_0", 0o755); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(deep+"/wikipedia/part_0/data.bin", []byte("hello"), 0o644); err != nil {
		log.Fatal(err)
	}

	mgr, err := segcache.New(
		[]location.Config{{Path: cacheDir, MaxSize: 1 << 30}},
		segcache.WithPuller("local", blobstore.NewPuller(blobstore.NewLocalStore(deep))),
		segcache.WithDeleteOnRemove(true),
	)
	if err != nil {
		log.Fatal(err)
	}

	dir, err := mgr.GetSegmentFiles(ctx, seg)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(dir + "/data.bin")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
	fmt.Println(mgr.IsSegmentLoaded(seg))

	mgr.Cleanup(ctx, seg)
	fmt.Println(mgr.IsSegmentLoaded(seg))

	// Output:
	// hello
	// true
	// false
}
