package target

import (
	"context"
	"fmt"
	"path"
	"strings"

	"feed-sync/core/reconcile"
	"feed-sync/core/staging"
	"feed-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Bucket publishes packages to an S3-compatible bucket laid out as
// {prefix}/{id}/{id}.{version}.nupkg.
type Bucket struct {
	client storage.Client
	bucket string
	prefix string
	fs     afero.Fs
	logger *zap.Logger
}

// NewBucket creates a bucket target.
func NewBucket(client storage.Client, bucket, prefix string, fs afero.Fs, logger *zap.Logger) *Bucket {
	return &Bucket{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		fs:     fs,
		logger: logger,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *Bucket) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}

	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	b.logger.Info("Created package bucket", zap.String("bucket", b.bucket))
	return nil
}

// ListPackages returns every stored version of the package.
func (b *Bucket) ListPackages(ctx context.Context, packageID string) ([]reconcile.InventoryEntry, error) {
	dir := b.packageDir(packageID)
	filePrefix := dir + packageID + "."

	var entries []reconcile.InventoryEntry
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: dir, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s in bucket %s: %w", dir, b.bucket, obj.Err)
		}
		if !strings.HasPrefix(obj.Key, filePrefix) || !strings.HasSuffix(obj.Key, staging.Extension) {
			continue
		}
		version := strings.TrimSuffix(strings.TrimPrefix(obj.Key, filePrefix), staging.Extension)
		if version == "" || strings.Contains(version, "/") {
			continue
		}
		entries = append(entries, reconcile.InventoryEntry{
			Version:        version,
			LastModifiedOn: obj.LastModified,
		})
	}

	b.logger.Debug("Listed bucket packages",
		zap.String("package", packageID),
		zap.Int("versions", len(entries)))

	return entries, nil
}

// PushPackage uploads a staged artifact, replacing any object with the same key.
func (b *Bucket) PushPackage(ctx context.Context, packageID, version, stagedPath string) error {
	f, err := b.fs.Open(stagedPath)
	if err != nil {
		return fmt.Errorf("failed to open staged package %s: %w", stagedPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat staged package %s: %w", stagedPath, err)
	}

	key := b.ObjectKey(packageID, version)
	_, err = b.client.PutObject(ctx, b.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
		UserMetadata: map[string]string{
			"package-id":      packageID,
			"package-version": version,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	b.logger.Info("Uploaded package to bucket",
		zap.String("bucket", b.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size()))
	return nil
}

// ObjectKey returns the key a package version is stored under.
func (b *Bucket) ObjectKey(packageID, version string) string {
	return b.packageDir(packageID) + packageID + "." + version + staging.Extension
}

func (b *Bucket) packageDir(packageID string) string {
	if b.prefix == "" {
		return packageID + "/"
	}
	return path.Join(b.prefix, packageID) + "/"
}
