package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/docpush/docpush/internal/auth"
	"github.com/docpush/docpush/internal/gdoc"
	"github.com/docpush/docpush/internal/outfmt"
	"github.com/docpush/docpush/internal/ui"
)

// ClearCmd deletes everything from an offset to the end of the document,
// typically to reset a templated doc before a fresh push.
type ClearCmd struct {
	DocID string `arg:"" name:"docId" help:"Document ID to clear."`
	After int64  `required:"" help:"Delete content from this offset to the end."`
}

func (c *ClearCmd) Run(ctx context.Context, flags *RootFlags) error {
	u := ui.FromContext(ctx)

	id := strings.TrimSpace(c.DocID)
	if id == "" {
		return usage("empty docId")
	}
	if c.After < 1 {
		return usage("--after must be at least 1, got %d", c.After)
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

	if flags.DryRun {
		end, err := engine.EndIndex(ctx, id)
		if err != nil {
			return err
		}
		if outfmt.IsJSON(ctx) {
			return outfmt.WriteJSON(os.Stdout, map[string]any{
				"operation": "clear",
				"dryRun":    true,
				"docId":     id,
				"after":     c.After,
				"endIndex":  end,
			})
		}
		u.Outf("operation\tclear (dry-run)")
		u.Outf("docId\t%s", id)
		u.Outf("would delete\t[%d, %d)", c.After, end)
		return nil
	}

	if err := engine.ClearAfter(ctx, id, c.After, 0); err != nil {
		return err
	}
	end, err := engine.EndIndex(ctx, id)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"operation": "clear",
			"docId":     id,
			"after":     c.After,
			"endIndex":  end,
		})
	}
	u.Outf("operation\tclear")
	u.Outf("docId\t%s", id)
	u.Outf("endIndex\t%d", end)
	return nil
}
