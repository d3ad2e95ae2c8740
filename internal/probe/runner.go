package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/brandbuilder/smokecheck/internal/console"
	"github.com/brandbuilder/smokecheck/internal/store"
	"github.com/brandbuilder/smokecheck/internal/trace"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// Defaults preserved from the original workflow.
const (
	DefaultAssetsDir     = "assets"
	DefaultTestPrefix    = "test"
	DefaultDesignsPrefix = "designs"
	DefaultAsset         = "logo.png"
)

// Config carries everything a probe needs, replacing the ambient environment
// lookups of the original workflow so tests can inject doubles.
type Config struct {
	// Bucket is the storage backend. A nil Bucket means the bucket could not
	// be opened and the connectivity probe reports unreachable.
	Bucket store.Bucket

	// BucketName is used to derive public URLs.
	BucketName string

	// AssetsDir is the local working directory for test artifacts. The cache
	// and downloads directories live beneath it unless set explicitly.
	AssetsDir    string
	CacheDir     string
	DownloadsDir string

	// Key prefixes for the write and image-upload probes.
	TestPrefix    string
	DesignsPrefix string

	// Asset is the file name of the image expected in the cache directory.
	Asset string
}

// Runner executes the smoke-test probes against a single bucket.
type Runner struct {
	cfg     Config
	printer *console.Printer
}

// NewRunner applies defaults to cfg and returns a Runner. A nil printer
// writes to stderr.
func NewRunner(cfg Config, printer *console.Printer) *Runner {
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = DefaultAssetsDir
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(cfg.AssetsDir, "cache")
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = filepath.Join(cfg.AssetsDir, "downloads")
	}
	if cfg.TestPrefix == "" {
		cfg.TestPrefix = DefaultTestPrefix
	}
	if cfg.DesignsPrefix == "" {
		cfg.DesignsPrefix = DefaultDesignsPrefix
	}
	if cfg.Asset == "" {
		cfg.Asset = DefaultAsset
	}
	if printer == nil {
		printer = console.NewPrinter(os.Stderr)
	}

	return &Runner{cfg: cfg, printer: printer}
}

// EnsureDirectories creates the assets, cache and downloads directories,
// including parents. Safe to call repeatedly.
func (r *Runner) EnsureDirectories() error {
	for _, dir := range []string{r.cfg.AssetsDir, r.cfg.CacheDir, r.cfg.DownloadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		log.Debug().Str("dir", dir).Msg("directory ensured")
	}
	return nil
}

// Connectivity verifies the configured bucket exists and is reachable. All
// later probes are skipped when this fails.
func (r *Runner) Connectivity(ctx context.Context) Result {
	ctx, span := trace.Start(ctx, "Runner.Connectivity")
	defer span.End()

	if r.cfg.Bucket == nil {
		err := errors.New("no bucket configured")
		log.Error().Msg("no bucket configured, set GCP_BUCKET_NAME or --bucket-url")
		return failure("connectivity", CauseUnreachable, err)
	}

	ok, err := r.cfg.Bucket.Accessible(ctx)
	if err != nil {
		log.Error().Err(err).Str("bucket", r.cfg.BucketName).Msg("failed to connect to bucket")
		return failure("connectivity", CauseUnreachable, err)
	}
	if !ok {
		err := fmt.Errorf("bucket %s does not exist", r.cfg.BucketName)
		log.Error().Str("bucket", r.cfg.BucketName).Msg("bucket does not exist")
		return failure("connectivity", CauseUnreachable, err)
	}

	log.Info().Str("bucket", r.cfg.BucketName).Msg("successfully connected to bucket")

	return Result{Probe: "connectivity", OK: true}
}

// Write generates a uniquely named local file with a timestamped payload and
// uploads it under the test prefix. Neither the local file nor the remote
// object is cleaned up afterwards, removal is left to the bucket lifecycle
// policy.
func (r *Runner) Write(ctx context.Context) Result {
	ctx, span := trace.Start(ctx, "Runner.Write")
	defer span.End()

	name := fmt.Sprintf("test_file_%s.txt", uuid.NewString())
	payload := fmt.Sprintf("Test content generated at %s", time.Now().Format(time.RFC3339))

	localPath := filepath.Join(r.cfg.AssetsDir, name)
	if err := os.WriteFile(localPath, []byte(payload), 0o644); err != nil {
		log.Error().Err(err).Str("path", localPath).Msg("failed to write local test file")
		return failure("write", CauseLocal, err)
	}

	key := r.cfg.TestPrefix + "/" + name

	info, err := r.cfg.Bucket.Upload(ctx, localPath, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload test file")
		return failure("write", CauseRemote, err)
	}

	span.SetAttributes(attribute.String("blob_key", key))

	publicURL := store.PublicURL(r.cfg.BucketName, key)

	log.Info().
		Str("key", key).
		Str("size", humanize.Bytes(int64ToUint64(info.BytesTransferred))).
		Str("public_url", publicURL).
		Msg("successfully wrote test file")

	return Result{Probe: "write", OK: true, Key: key, PublicURL: publicURL}
}

// ImageUpload uploads the configured image asset from the cache directory
// under the designs prefix. When the asset is missing locally it lists the
// cache directory for the operator and makes no remote call.
func (r *Runner) ImageUpload(ctx context.Context) Result {
	ctx, span := trace.Start(ctx, "Runner.ImageUpload")
	defer span.End()

	assetPath := filepath.Join(r.cfg.CacheDir, r.cfg.Asset)

	if _, err := os.Stat(assetPath); err != nil {
		log.Error().Str("path", assetPath).Msg("image file not found")
		log.Info().Strs("available", listDir(r.cfg.CacheDir)).Str("dir", r.cfg.CacheDir).Msg("available files in cache dir")
		return failure("image-upload", CausePrecondition, fmt.Errorf("image file not found at %s: %w", assetPath, err))
	}

	key := r.cfg.DesignsPrefix + "/" + r.cfg.Asset

	info, err := r.cfg.Bucket.Upload(ctx, assetPath, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload image")
		return failure("image-upload", CauseRemote, err)
	}

	span.SetAttributes(attribute.String("blob_key", key))

	publicURL := store.PublicURL(r.cfg.BucketName, key)

	log.Info().
		Str("key", key).
		Str("size", humanize.Bytes(int64ToUint64(info.BytesTransferred))).
		Str("public_url", publicURL).
		Msg("successfully uploaded image")

	return Result{Probe: "image-upload", OK: true, Key: key, PublicURL: publicURL}
}

// ImageDownload downloads the object at key to the downloads directory,
// overwriting any existing file with the same base name.
func (r *Runner) ImageDownload(ctx context.Context, key string) Result {
	ctx, span := trace.Start(ctx, "Runner.ImageDownload")
	defer span.End()

	destPath := filepath.Join(r.cfg.DownloadsDir, path.Base(key))

	info, err := r.cfg.Bucket.Download(ctx, key, destPath)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to download image")
		return failure("image-download", CauseRemote, err)
	}

	span.SetAttributes(attribute.String("blob_key", key))

	publicURL := store.PublicURL(r.cfg.BucketName, key)

	log.Info().
		Str("key", key).
		Str("path", destPath).
		Str("size", humanize.Bytes(int64ToUint64(info.BytesTransferred))).
		Msg("successfully downloaded image")

	return Result{Probe: "image-download", OK: true, Key: key, LocalPath: destPath, PublicURL: publicURL}
}

// RunAll runs the probes in order, stopping after the first failure. Every
// probe logs its own outcome when it runs, no probe is retried. The returned
// results are informational only.
func (r *Runner) RunAll(ctx context.Context) []Result {
	ctx, span := trace.Start(ctx, "Runner.RunAll")
	defer span.End()

	if err := r.EnsureDirectories(); err != nil {
		log.Error().Err(err).Msg("failed to prepare workspace directories")
		r.printer.Error("❌", "Failed to prepare workspace directories: %v", err)
		return []Result{failure("workspace", CauseLocal, err)}
	}

	results := make([]Result, 0, 4)

	conn := r.Connectivity(ctx)
	results = append(results, conn)
	if !conn.OK {
		r.printer.Error("❌", "Bucket %q is not reachable, skipping remaining probes", r.cfg.BucketName)
		return results
	}
	r.printer.Success("✅", "Connected to bucket %q", r.cfg.BucketName)

	write := r.Write(ctx)
	results = append(results, write)
	if !write.OK {
		r.printer.Error("❌", "Write probe failed, skipping remaining probes")
		return results
	}
	r.printer.Success("✅", "Wrote test file: %s", write.Key)

	upload := r.ImageUpload(ctx)
	results = append(results, upload)
	if !upload.OK {
		r.printer.Error("❌", "Image upload failed, skipping download probe")
		return results
	}
	r.printer.Success("✅", "Uploaded image: %s", upload.Key)

	download := r.ImageDownload(ctx, upload.Key)
	results = append(results, download)
	if !download.OK {
		r.printer.Error("❌", "Image download failed")
		return results
	}
	r.printer.Success("✅", "Downloaded image to: %s", download.LocalPath)

	return results
}

func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func int64ToUint64(x int64) uint64 {
	if x < 0 {
		return 0
	}
	return uint64(x)
}
