package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	ID     string `help:"Show a single run" arg:"" optional:""`
	Limit  int    `short:"n" help:"Number of runs to show" default:"10"`
	Format string `short:"f" help:"Output format (text or json)" enum:"text,json" default:"text"`
}

// Run lists recent lint runs from the history database.
func (h *HistoryCmd) Run(g *Global, _ *CLI) error {
	cfg, err := g.Settings()
	if err != nil {
		return err
	}
	if cfg.History.Database == "" {
		return errors.ConfigError("lint history is disabled").
			WithContext("hint", "set history.database in the configuration").
			Build()
	}

	store, err := history.NewSQLiteStore(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	var runs []history.Run
	if h.ID != "" {
		run, err := store.Get(ctx, h.ID)
		if err != nil {
			return err
		}
		runs = []history.Run{run}
	} else if runs, err = store.Recent(ctx, h.Limit); err != nil {
		return err
	}

	if h.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []history.Run{}
		}
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(g.Out, "No lint runs recorded yet.")
		return nil
	}
	_, _ = fmt.Fprintln(g.Out, runsTable(runs))
	if h.ID != "" {
		printCodes(g, runs[0])
	}
	return nil
}

func runsTable(runs []history.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "STARTED", "PATH", "FILES", "ERRORS", "WARNINGS", "OUTCOME", "DURATION")
	for _, run := range runs {
		t.Row(
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Path,
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Errors),
			strconv.Itoa(run.Warnings),
			run.Outcome,
			run.Duration.Round(time.Millisecond).String(),
		)
	}
	return t.String()
}

func printCodes(g *Global, run history.Run) {
	top := run.TopCodes(0)
	if len(top) == 0 {
		return
	}
	_, _ = fmt.Fprintln(g.Out, "\nIssues by code:")
	for _, c := range top {
		_, _ = fmt.Fprintf(g.Out, "  %-28s %d\n", c.Code, c.Count)
	}
}
