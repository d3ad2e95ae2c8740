package commands

import (
	"context"

	"github.com/brandbuilder/smokecheck/internal/api"
	"github.com/brandbuilder/smokecheck/internal/trace"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

type ModelsCmd struct {
	Endpoint string `flag:"endpoint" help:"The inference API endpoint to query." default:"https://api.openai.com/v1" env:"OPENAI_BASE_URL"`
	APIKey   string `flag:"api-key" help:"The inference API key to check." env:"OPENAI_API_KEY" required:"true"`
	Limit    int    `flag:"limit" help:"Maximum number of models to request."`
}

// Run lists the models the configured API key has access to. Useful when an
// agent hits "model not found" or "access denied" errors.
func (cmd *ModelsCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, span := trace.Start(ctx, "ModelsCmdRun")
	defer span.End()

	log.Info().Str("version", globals.Version).Str("endpoint", cmd.Endpoint).Msg("Running ModelsCmd")

	globals.Printer.Info("🔑", "Checking model access for the configured API key")

	client := api.NewClient(ctx, globals.Version, cmd.Endpoint, cmd.APIKey)

	resp, err := client.ListModels(ctx, api.ListModelsReq{Limit: cmd.Limit})
	if err != nil {
		return trace.NewError(span, "failed to list models: %w", err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Model", "Owner", "Created")

	for _, model := range resp.Data {
		t.Row(model.ID, model.OwnedBy, humanize.Time(model.CreatedAt()))
	}

	globals.Printer.Info("📋", "Models available to this API key:\n%s", t.Render())
	globals.Printer.Success("✅", "API key has access to %d models", len(resp.Data))

	return nil
}
