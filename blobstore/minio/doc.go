// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. The store
// is read-only: segment objects in deep storage are immutable, so only Open
// and List are needed. It works with any S3-compatible backend (Ceph, Garage,
// SeaweedFS) and is air-gap friendly.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "deep-storage", "segments/")
package minio
