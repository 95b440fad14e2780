package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdxcheck/cmd/mdxcheck/commands"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/version"
)

func main() {
	var cli commands.CLI
	global := commands.NewGlobal(os.Stdout)

	parser := kong.Parse(&cli,
		kong.Name("mdxcheck"),
		kong.Description("Validate front-matter and embedded components of content documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := parser.Run(global, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
