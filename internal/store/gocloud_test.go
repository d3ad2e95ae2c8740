package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGocloudBucket_LocalFile(t *testing.T) {
	tmpDir := t.TempDir()
	testDir := t.TempDir()

	// Create a test file
	testFile := filepath.Join(testDir, "test.txt")
	testContent := "Hello, gocloud.dev!"
	err := os.WriteFile(testFile, []byte(testContent), 0600)
	require.NoError(t, err)

	ctx := context.Background()

	// Create a file-based bucket for testing
	blobURL := "file://" + tmpDir
	bucket, err := NewGocloudBucket(ctx, blobURL, "test-prefix")
	require.NoError(t, err)
	defer bucket.Close()

	// Test accessibility
	ok, err := bucket.Accessible(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Test upload
	key := "my-test-file.txt"
	transferInfo, err := bucket.Upload(ctx, testFile, key)
	require.NoError(t, err)
	assert.Greater(t, transferInfo.BytesTransferred, int64(0))
	assert.Greater(t, transferInfo.TransferSpeed, 0.0)

	// Verify file exists in blob storage under the prefix
	expectedPath := filepath.Join(tmpDir, "test-prefix", key)
	_, err = os.Stat(expectedPath)
	require.NoError(t, err)

	// Test download
	downloadFile := filepath.Join(testDir, "downloaded.txt")
	transferInfo, err = bucket.Download(ctx, key, downloadFile)
	require.NoError(t, err)
	assert.Greater(t, transferInfo.BytesTransferred, int64(0))

	// Verify downloaded content is byte identical
	downloadedContent, err := os.ReadFile(downloadFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, string(downloadedContent))
}

func TestGocloudBucket_DownloadMissingKey(t *testing.T) {
	ctx := context.Background()

	bucket, err := NewGocloudBucket(ctx, "mem://", "")
	require.NoError(t, err)
	defer bucket.Close()

	destPath := filepath.Join(t.TempDir(), "should-not-exist.txt")

	_, err = bucket.Download(ctx, "never/uploaded.txt", destPath)
	require.Error(t, err)

	// A failed download must not leave a partial file behind
	_, err = os.Stat(destPath)
	assert.True(t, os.IsNotExist(err))
}

func TestGocloudBucket_UploadMissingFile(t *testing.T) {
	ctx := context.Background()

	bucket, err := NewGocloudBucket(ctx, "mem://", "")
	require.NoError(t, err)
	defer bucket.Close()

	_, err = bucket.Upload(ctx, filepath.Join(t.TempDir(), "missing.txt"), "test/missing.txt")
	require.Error(t, err)
}

func TestGocloudBucket_Interface(t *testing.T) {
	// This test ensures that GocloudBucket properly implements the Bucket interface
	var _ Bucket = (*GocloudBucket)(nil)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/example-bucket/designs/logo.png",
		PublicURL("example-bucket", "designs/logo.png"))
}
