package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/brandbuilder/smokecheck/internal/commands"
	"github.com/brandbuilder/smokecheck/internal/console"
	"github.com/brandbuilder/smokecheck/internal/trace"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"

	cli struct {
		Version       kong.VersionFlag
		Debug         bool   `help:"Enable debug mode." default:"false" env:"SMOKECHECK_DEBUG"`
		TraceExporter string `flag:"trace-exporter" help:"The trace exporter to use. Defaults to 'noop'." default:"noop" enum:"noop,grpc" env:"SMOKECHECK_TRACE_EXPORTER"`

		Check  commands.CheckCmd  `cmd:"" default:"1" help:"run the storage smoke test probes."`
		Models commands.ModelsCmd `cmd:"" help:"list the models the configured API key can access."`
	}
)

func main() {
	ctx := context.Background()

	start := time.Now()

	// the original diagnostics read a .env file when present, keep doing that
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.Configuration(kongyaml.Loader, ".smokecheck.yaml", ".smokecheck.yml"),
		kong.BindTo(ctx, (*context.Context)(nil)))

	if cli.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.InfoLevel)
	}

	tp, err := trace.NewProvider(ctx, cli.TraceExporter, "github.com/brandbuilder/smokecheck", version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create trace provider")
	}
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	ctx, span := trace.Start(ctx, "smokecheck")
	defer span.End()

	printer := console.NewPrinter(os.Stderr)

	err = cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version, Printer: printer})
	span.RecordError(err)
	cmd.FatalIfErrorf(err)

	printer.Info("✅", "%s completed successfully in %s", cmd.Command(), time.Since(start).String())
}
