package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docpush/docpush/internal/auth"
	"github.com/docpush/docpush/internal/gdoc"
	"github.com/docpush/docpush/internal/outfmt"
)

// CatCmd prints a document's body as plain text.
type CatCmd struct {
	DocID string `arg:"" name:"docId" help:"Document ID to read."`
}

func (c *CatCmd) Run(ctx context.Context, flags *RootFlags) error {
	id := strings.TrimSpace(c.DocID)
	if id == "" {
		return usage("empty docId")
	}

	account, err := requireAccount(flags)
	if err != nil {
		return err
	}
	docsSvc, err := auth.NewDocs(ctx, account)
	if err != nil {
		return err
	}
	engine := gdoc.NewEngine(docsSvc)

	text, err := engine.Text(ctx, id)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"operation": "cat",
			"docId":     id,
			"text":      text,
		})
	}
	fmt.Print(text)
	return nil
}
