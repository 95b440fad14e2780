package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/mdxcheck/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write .mdxcheck.yaml into" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	switch {
	case i.Output != "":
		path = filepath.Join(i.Output, config.DefaultPath)
	case path == "":
		path = config.DefaultPath
	}

	_, _ = fmt.Fprintf(g.Out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
