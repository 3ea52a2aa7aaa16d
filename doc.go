// Package segcache manages the node-local disk cache of immutable data
// segments for a distributed columnar query engine.
//
// Segments live durably in a remote blob store and are pulled onto one of the
// node's configured storage locations on demand. The manager owns placement
// (locations ranked by free capacity), the crash-safe download protocol (a
// marker file distinguishes complete segment directories from interrupted
// downloads), retry across locations, and cleanup when segments are dropped.
//
// Typical wiring:
//
//	store := blobstore.NewLocalStore("/mnt/deep-storage")
//	mgr, err := segcache.New(
//	    []location.Config{{Path: "/var/cache/segments", MaxSize: 100 << 30}},
//	    segcache.WithPuller("local", blobstore.NewPuller(store)),
//	    segcache.WithDeleteOnRemove(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dir, err := mgr.GetSegmentFiles(ctx, seg) // downloads on first use
package segcache
