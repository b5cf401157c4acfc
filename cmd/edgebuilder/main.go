package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/edgebuilder/cmd/edgebuilder/commands"
)

var version = "dev"

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("edgebuilder"),
		kong.Description("Build static pages and a versioned edge-served partial store from a content tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
