package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/brandbuilder/smokecheck/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // Local file driver for testing
	_ "gocloud.dev/blob/gcsblob"  // Google Cloud Storage driver
	_ "gocloud.dev/blob/memblob"  // In-memory driver for testing
)

// GocloudBucket implements the Bucket interface using gocloud.dev
type GocloudBucket struct {
	bucket *blob.Bucket
	prefix string
}

// Ensure GocloudBucket implements the Bucket interface
var _ Bucket = (*GocloudBucket)(nil)

// NewGocloudBucket opens a bucket from a blob URL, with an optional key prefix
// applied to every operation.
// For GCS: "gs://bucket-name"
// For local development: "file:///path/to/directory"
// For tests: "mem://"
func NewGocloudBucket(ctx context.Context, blobURL, prefix string) (*GocloudBucket, error) {
	bucket, err := blob.OpenBucket(ctx, blobURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}

	return &GocloudBucket{
		bucket: bucket,
		prefix: normalizePrefix(prefix),
	}, nil
}

// Close closes the underlying bucket connection
func (b *GocloudBucket) Close() error {
	return b.bucket.Close()
}

// Accessible reports whether the bucket exists and is reachable with the
// ambient credentials. A missing bucket is not an error.
func (b *GocloudBucket) Accessible(ctx context.Context) (bool, error) {
	ctx, span := trace.Start(ctx, "GocloudBucket.Accessible")
	defer span.End()

	ok, err := b.bucket.IsAccessible(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket: %w", err)
	}

	span.SetAttributes(attribute.Bool("bucket_accessible", ok))

	return ok, nil
}

// Upload uploads a local file to blob storage
func (b *GocloudBucket) Upload(ctx context.Context, filePath string, key string) (*TransferInfo, error) {
	ctx, span := trace.Start(ctx, "GocloudBucket.Upload")
	defer span.End()

	start := time.Now()

	fullKey := b.fullKey(key)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	writer, err := b.bucket.NewWriter(ctx, fullKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob writer: %w", err)
	}

	bytesWritten, err := io.Copy(writer, file)
	if err != nil {
		writer.Close() // Close writer on error
		return nil, fmt.Errorf("failed to copy file to blob: %w", err)
	}

	// Close the writer to commit the upload
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close blob writer: %w", err)
	}

	duration := time.Since(start)
	averageSpeed := transferSpeedMBps(bytesWritten, duration)

	span.SetAttributes(
		attribute.Int64("bytes_transferred", bytesWritten),
		attribute.String("transfer_speed", fmt.Sprintf("%.2fMB/s", averageSpeed)),
		attribute.String("blob_key", fullKey),
	)

	return &TransferInfo{
		BytesTransferred: bytesWritten,
		TransferSpeed:    averageSpeed,
		Duration:         duration,
	}, nil
}

// Download downloads an object from blob storage to a local file, overwriting
// any existing file at destPath.
func (b *GocloudBucket) Download(ctx context.Context, key string, destPath string) (*TransferInfo, error) {
	ctx, span := trace.Start(ctx, "GocloudBucket.Download")
	defer span.End()

	start := time.Now()

	fullKey := b.fullKey(key)

	// Open the reader before creating the destination file so a missing
	// object never leaves an empty file behind.
	reader, err := b.bucket.NewReader(ctx, fullKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob reader: %w", err)
	}
	defer reader.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destFile.Close()

	bytesWritten, err := io.Copy(destFile, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to copy blob to file: %w", err)
	}

	duration := time.Since(start)
	averageSpeed := transferSpeedMBps(bytesWritten, duration)

	span.SetAttributes(
		attribute.Int64("bytes_transferred", bytesWritten),
		attribute.String("transfer_speed", fmt.Sprintf("%.2fMB/s", averageSpeed)),
		attribute.String("blob_key", fullKey),
	)

	return &TransferInfo{
		BytesTransferred: bytesWritten,
		TransferSpeed:    averageSpeed,
		Duration:         duration,
	}, nil
}

// fullKey combines the prefix with the key
func (b *GocloudBucket) fullKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	return path.Join(b.prefix, key)
}

func normalizePrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}
