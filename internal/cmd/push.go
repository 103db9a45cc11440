package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docpush/docpush/internal/auth"
	"github.com/docpush/docpush/internal/config"
	"github.com/docpush/docpush/internal/gdoc"
	"github.com/docpush/docpush/internal/markdown"
	"github.com/docpush/docpush/internal/outfmt"
	"github.com/docpush/docpush/internal/ui"
)

// PushCmd inserts a markdown file into an existing Google Doc: preprocess,
// chunk, then per chunk parse, insert segments, run the table protocol, and
// finally resolve image placeholders. Failures are isolated per chunk.
type PushCmd struct {
	DocID string `arg:"" name:"docId" help:"Target document ID."`
	File  string `arg:"" help:"Markdown file to insert."`

	CodeFont     string `help:"Monospace font family for code." default:"Consolas"`
	StartIndex   int64  `help:"Template boundary; content below this offset is never touched."`
	ClearAfter   int64  `help:"Delete [offset, end) before inserting. Must not be below --start-index."`
	Images       bool   `help:"Upload local images and replace placeholders."`
	ImageDir     string `help:"Base directory for relative image paths."`
	ChunkSize    int    `help:"Maximum chunk size in bytes." default:"20000"`
	NoHeaderBold bool   `help:"Skip bolding table header rows."`
}

// chunkPlan is the per-chunk summary printed as progress and used for the
// dry-run output.
type chunkPlan struct {
	Units    []gdoc.Unit
	Blocks   int
	Tables   int
	Code     int
	StyleOps int
}

// planChunk parses one chunk and compiles its insertion units. Planning is
// pure: computing the same chunk's plan twice yields identical operations.
func planChunk(chunk, codeFont string) chunkPlan {
	blocks := markdown.Parse(chunk)
	plan := chunkPlan{Units: gdoc.Compile(blocks), Blocks: len(blocks)}
	for _, b := range blocks {
		switch b.Kind {
		case markdown.BlockTable:
			plan.Tables++
		case markdown.BlockCode:
			plan.Code++
		}
	}
	for _, u := range plan.Units {
		if u.Segment != nil {
			plan.StyleOps += len(u.Segment.StyleRequests(1, codeFont))
		}
	}
	return plan
}

func (c *PushCmd) Run(ctx context.Context, flags *RootFlags) error {
	u := ui.FromContext(ctx)

	id := strings.TrimSpace(c.DocID)
	if id == "" {
		return usage("empty docId")
	}
	if c.ClearAfter > 0 && c.ClearAfter < c.StartIndex {
		return usage("--clear-after %d is below the template boundary %d", c.ClearAfter, c.StartIndex)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.applyConfig(cfg)

	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read markdown file: %w", err)
	}
	source := norm.NFC.String(string(raw))

	text, refs := markdown.Preprocess(source)
	chunks := markdown.SplitChunks(text, c.ChunkSize)
	u.Verbosef("%d chunks, %d image refs", len(chunks), len(refs))

	if flags.DryRun {
		return c.runDryRun(ctx, u, chunks, len(refs))
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

	if c.ClearAfter > 0 {
		if err := engine.ClearAfter(ctx, id, c.ClearAfter, c.StartIndex); err != nil {
			return fmt.Errorf("clear template tail: %w", err)
		}
	}

	processed := 0
	for i, chunk := range chunks {
		plan := planChunk(chunk, c.CodeFont)
		u.Progressf("chunk %d/%d: %d blocks, %d tables, %d code blocks",
			i+1, len(chunks), plan.Blocks, plan.Tables, plan.Code)

		if err := c.insertChunk(ctx, engine, id, plan); err != nil {
			// A failed chunk's partial edits stay in place; log, back off,
			// and move on to the next chunk.
			u.Errorf("chunk %d: %v", i+1, err)
			if perr := engine.RecoveryPause(ctx); perr != nil {
				return perr
			}
			continue
		}
		processed++
	}

	imagesPlaced := 0
	if c.Images && len(refs) > 0 {
		u.Progressf("uploading %d images", len(refs))
		driveSvc, err := auth.NewDrive(ctx, account)
		if err != nil {
			return err
		}
		uploader := &gdoc.DriveUploader{Drive: driveSvc}
		imagesPlaced, err = engine.ImagePass(ctx, id, refs, uploader, c.ImageDir)
		if err != nil {
			return fmt.Errorf("image pass: %w", err)
		}
		u.Verbosef("%d of %d images placed", imagesPlaced, len(refs))
	}

	end, err := engine.EndIndex(ctx, id)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"operation":    "push",
			"docId":        id,
			"chunks":       processed,
			"images":       len(refs),
			"imagesPlaced": imagesPlaced,
			"endIndex":     end,
		})
	}
	u.Outf("operation\tpush")
	u.Outf("docId\t%s", id)
	u.Outf("chunks\t%d", processed)
	u.Outf("images\t%d", len(refs))
	u.Outf("imagesPlaced\t%d", imagesPlaced)
	u.Outf("endIndex\t%d", end)
	return nil
}

// insertChunk flushes one chunk's units in order. The engine re-reads the
// end index before every unit that is not contiguous with the previous one.
func (c *PushCmd) insertChunk(ctx context.Context, engine *gdoc.Engine, id string, plan chunkPlan) error {
	for _, unit := range plan.Units {
		switch {
		case unit.Segment != nil:
			if _, err := engine.InsertSegment(ctx, id, unit.Segment, c.CodeFont); err != nil {
				return err
			}
		case unit.Table != nil:
			if _, err := engine.InsertTable(ctx, id, unit.Table, !c.NoHeaderBold); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *PushCmd) runDryRun(ctx context.Context, u *ui.UI, chunks []string, images int) error {
	type chunkSummary struct {
		Blocks   int `json:"blocks"`
		Tables   int `json:"tables"`
		Code     int `json:"code"`
		StyleOps int `json:"styleOps"`
	}
	var summaries []chunkSummary
	for _, chunk := range chunks {
		plan := planChunk(chunk, c.CodeFont)
		summaries = append(summaries, chunkSummary{plan.Blocks, plan.Tables, plan.Code, plan.StyleOps})
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"operation": "push",
			"dryRun":    true,
			"docId":     c.DocID,
			"chunks":    summaries,
			"images":    images,
		})
	}
	u.Outf("operation\tpush (dry-run)")
	u.Outf("docId\t%s", c.DocID)
	for i, s := range summaries {
		u.Outf("chunk %d\t%d blocks, %d tables, %d code blocks, %d style ops", i+1, s.Blocks, s.Tables, s.Code, s.StyleOps)
	}
	u.Outf("images\t%d", images)
	return nil
}

// applyConfig fills default-valued flags from the config file. Kong applies
// its defaults before we see the struct, so "still the default" is the best
// available signal for "not set on the command line".
func (c *PushCmd) applyConfig(cfg *config.Config) {
	if cfg.CodeFont != "" && c.CodeFont == gdoc.DefaultCodeFont {
		c.CodeFont = cfg.CodeFont
	}
	if cfg.ChunkSize > 0 && c.ChunkSize == markdown.DefaultChunkSize {
		c.ChunkSize = cfg.ChunkSize
	}
	if cfg.ImageDir != "" && c.ImageDir == "" {
		c.ImageDir = cfg.ImageDir
	}
}
