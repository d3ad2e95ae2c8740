package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brandbuilder/smokecheck/internal/console"
	"github.com/brandbuilder/smokecheck/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCmd_FileBucket(t *testing.T) {
	bucketDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	// the image asset must already be present in the cache directory
	require.NoError(t, os.MkdirAll(filepath.Join(assetsDir, "cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "cache", "logo.png"), []byte("image-bytes"), 0o644))

	buf := new(bytes.Buffer)

	cmd := &CheckCmd{
		Bucket:    "example-bucket",
		BucketURL: "file://" + bucketDir,
		AssetsDir: assetsDir,
		Asset:     "logo.png",
	}

	err := cmd.Run(context.Background(), &Globals{Version: "test", Printer: console.NewPrinter(buf)})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `Connected to bucket "example-bucket"`)
	assert.Contains(t, out, "Uploaded image: designs/logo.png")
	assert.Contains(t, out, "Downloaded image to:")
	assert.Contains(t, out, "Smoke test summary:")

	// the uploaded objects are really in the bucket
	_, err = os.Stat(filepath.Join(bucketDir, "designs", "logo.png"))
	require.NoError(t, err)
}

func TestCheckCmd_NoBucketConfigured(t *testing.T) {
	buf := new(bytes.Buffer)

	cmd := &CheckCmd{AssetsDir: filepath.Join(t.TempDir(), "assets")}

	// probe failures never surface as an error from the command
	err := cmd.Run(context.Background(), &Globals{Version: "test", Printer: console.NewPrinter(buf)})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "is not reachable, skipping remaining probes")
}

func TestSummaryTable(t *testing.T) {
	results := []probe.Result{
		{Probe: "connectivity", OK: true},
		{Probe: "write", OK: true, Key: "test/abc.txt", PublicURL: "https://storage.googleapis.com/example-bucket/test/abc.txt"},
		{Probe: "image-upload", Cause: probe.CausePrecondition, Err: errors.New("image file not found")},
	}

	rendered := summaryTable(results).Render()
	assert.Contains(t, rendered, "connectivity")
	assert.Contains(t, rendered, "test/abc.txt")
	assert.Contains(t, rendered, "precondition: image file not found")
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "ok", statusText(probe.Result{OK: true}))
	assert.Equal(t, "failed", statusText(probe.Result{}))
}

func TestDetailText(t *testing.T) {
	assert.Equal(t, "/tmp/downloads/logo.png", detailText(probe.Result{OK: true, LocalPath: "/tmp/downloads/logo.png"}))
	assert.Equal(t, "https://example.com/x", detailText(probe.Result{OK: true, PublicURL: "https://example.com/x"}))
	assert.Equal(t, "", detailText(probe.Result{OK: true}))
}
