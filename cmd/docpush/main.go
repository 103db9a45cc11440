// Command docpush pushes markdown files into Google Docs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/docpush/docpush/internal/cmd"
	"github.com/docpush/docpush/internal/outfmt"
	"github.com/docpush/docpush/internal/ui"
)

func main() {
	var cli cmd.CLI
	parser := kong.Parse(&cli,
		kong.Name("docpush"),
		kong.Description("Insert markdown into hosted Google Docs, chunk by chunk."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := ui.New(cli.Verbose)
	ctx = ui.WithUI(ctx, u)
	ctx = outfmt.WithJSON(ctx, cli.JSON)

	parser.BindTo(ctx, (*context.Context)(nil))
	parser.Bind(&cli.RootFlags)

	if err := parser.Run(); err != nil {
		if cmd.IsUsage(err) {
			fmt.Fprintf(os.Stderr, "docpush: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "docpush: %v\n", err)
		os.Exit(1)
	}
}
