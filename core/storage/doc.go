// Package storage provides access to the S3-compatible bucket behind the
// backend's file storage.
//
// It wraps the MinIO Go client behind a two-method Client interface, which is
// all the storage probe needs and keeps it easy to mock (see storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - ListObjects: Samples objects in a bucket (prefix, max keys).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
