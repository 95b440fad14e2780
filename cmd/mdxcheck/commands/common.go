package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdxcheck/internal/config"
)

// Global is shared state handed to every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; logs always go to stderr.
	Out io.Writer

	cfg    *config.Config
	cfgErr error
}

// NewGlobal returns global state writing command output to out.
func NewGlobal(out io.Writer) *Global {
	return &Global{Logger: slog.Default(), Out: out}
}

// Settings returns the configuration loaded during flag parsing.
func (g *Global) Settings() (*config.Config, error) {
	if g.cfgErr != nil {
		return nil, g.cfgErr
	}
	if g.cfg == nil {
		return config.Default(), nil
	}
	return g.cfg, nil
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default .mdxcheck.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Lint       LintCmd       `cmd:"" help:"Validate content documents"`
	Watch      WatchCmd      `cmd:"" help:"Re-lint documents as they change"`
	Components ComponentsCmd `cmd:"" help:"List the components of the active registry"`
	History    HistoryCmd    `cmd:"" help:"Show recent lint runs"`
	Init       InitCmd       `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; load configuration and set up logging once.
// A configuration error is kept for the commands that need it so that
// commands such as init still work next to a broken file.
func (c *CLI) AfterApply(g *Global) error {
	path, required := c.Config, true
	if path == "" {
		path, required = config.DefaultPath, false
	}
	g.cfg, g.cfgErr = config.LoadOrDefault(path, required)

	level := slog.LevelInfo
	format := config.LogFormatText
	if g.cfgErr == nil {
		level = g.cfg.Logging.Level.SlogLevel()
		format = g.cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
	return nil
}
