// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used by the
// bucket deployment target. Both AWS S3 and self-hosted MinIO are supported.
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the bucket on first use.
//   - PutObject: Uploads a package artifact (with size and options).
//   - ListObjects: Lists stored artifacts under a prefix.
//
// Tests mock the interface with core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "packages")
package storage
