package main

import (
	"github.com/alecthomas/kong"

	"github.com/JiBB/songbook/cmd/songbook/commands"
)

const version = "0.1.0"

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("songbook"),
		kong.Description("Statically generates a songbook website, sorted and indexed in multiple ways, from a set of files containing labeled and tagged song lyrics."),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
