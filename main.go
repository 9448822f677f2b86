package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/hangxie/parquet-atlas/cmd"
)

var cli struct {
	Browse cmd.BrowseCmd `cmd:"" help:"Explore a file's byte layout in the terminal."`
	Serve  cmd.ServeCmd  `cmd:"" help:"Serve the byte layout over an HTTP API."`
}

func main() {
	parser := kong.Must(
		&cli,
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Description("Interactive map of a Parquet file's physical byte layout, for full usage see https://github.com/hangxie/parquet-atlas/blob/main/README.md"),
	)
	kongplete.Complete(parser, kongplete.WithPredictor("file", complete.PredictFiles("*")))

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run())
}
