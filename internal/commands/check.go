package commands

import (
	"context"

	"github.com/brandbuilder/smokecheck/internal/probe"
	"github.com/brandbuilder/smokecheck/internal/store"
	"github.com/brandbuilder/smokecheck/internal/trace"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

type CheckCmd struct {
	Bucket        string `flag:"bucket" help:"Name of the bucket to probe." env:"GCP_BUCKET_NAME"`
	BucketURL     string `flag:"bucket-url" help:"Blob URL of the bucket, overrides the gs:// URL derived from --bucket." env:"SMOKECHECK_BUCKET_URL"`
	AssetsDir     string `flag:"assets-dir" help:"Directory for local test artifacts." default:"assets" env:"SMOKECHECK_ASSETS_DIR"`
	Asset         string `flag:"asset" help:"File name of the image asset expected in the cache directory." default:"logo.png" env:"SMOKECHECK_ASSET"`
	TestPrefix    string `flag:"test-prefix" help:"Key prefix for write-probe uploads." default:"test"`
	DesignsPrefix string `flag:"designs-prefix" help:"Key prefix for image uploads." default:"designs"`
}

// Run executes the full probe sequence. Probe failures are reported on the
// console and in the logs but never as a non-zero exit.
func (cmd *CheckCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, span := trace.Start(ctx, "CheckCmdRun")
	defer span.End()

	log.Info().Str("version", globals.Version).Msg("Running CheckCmd")

	span.SetAttributes(
		attribute.String("bucket", cmd.Bucket),
		attribute.String("bucket_url", cmd.BucketURL),
		attribute.String("assets_dir", cmd.AssetsDir),
	)

	globals.Printer.Info("🔍", "Starting storage smoke test for bucket: %s", cmd.Bucket)

	bucket := cmd.openBucket(ctx)
	if bucket != nil {
		defer bucket.Close()
	}

	runner := probe.NewRunner(probe.Config{
		Bucket:        bucket,
		BucketName:    cmd.Bucket,
		AssetsDir:     cmd.AssetsDir,
		TestPrefix:    cmd.TestPrefix,
		DesignsPrefix: cmd.DesignsPrefix,
		Asset:         cmd.Asset,
	}, globals.Printer)

	results := runner.RunAll(ctx)

	globals.Printer.Info("📊", "Smoke test summary:\n%s", summaryTable(results).Render())

	return nil
}

// openBucket returns nil when the bucket cannot be opened, the runner then
// reports the connectivity probe as unreachable without further remote calls.
func (cmd *CheckCmd) openBucket(ctx context.Context) store.Bucket {
	blobURL := cmd.BucketURL
	if blobURL == "" {
		if cmd.Bucket == "" {
			log.Error().Msg("no bucket configured, set GCP_BUCKET_NAME or --bucket-url")
			return nil
		}
		blobURL = "gs://" + cmd.Bucket
	}

	bucket, err := store.NewGocloudBucket(ctx, blobURL, "")
	if err != nil {
		log.Error().Err(err).Str("bucket_url", blobURL).Msg("failed to open bucket")
		return nil
	}

	return bucket
}
