package store

import "context"

// Bucket defines the operations the smoke test needs from object storage.
type Bucket interface {
	// Accessible reports whether the bucket exists and can be reached with
	// the current credentials.
	Accessible(ctx context.Context) (bool, error)

	// Upload copies a local file to the given key.
	Upload(ctx context.Context, filePath string, key string) (*TransferInfo, error)

	// Download copies the object at key to a local file.
	Download(ctx context.Context, key string, destPath string) (*TransferInfo, error)

	// Close releases the underlying bucket connection.
	Close() error
}
