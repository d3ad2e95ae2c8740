package commands

import (
	"fmt"

	"github.com/brandbuilder/smokecheck/internal/console"
	"github.com/brandbuilder/smokecheck/internal/probe"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type Globals struct {
	Debug   bool
	Version string
	Printer *console.Printer
}

// summaryTable renders the per-probe outcomes after a check run.
func summaryTable(results []probe.Result) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Probe", "Status", "Detail")

	for _, res := range results {
		t.Row(res.Probe, statusText(res), detailText(res))
	}

	return t
}

func statusText(res probe.Result) string {
	if res.OK {
		return "ok"
	}
	return "failed"
}

func detailText(res probe.Result) string {
	if !res.OK {
		return fmt.Sprintf("%s: %v", res.Cause, res.Err)
	}

	switch {
	case res.LocalPath != "":
		return res.LocalPath
	case res.PublicURL != "":
		return res.PublicURL
	default:
		return ""
	}
}
