package gdoc

import (
	"context"
	"fmt"

	"google.golang.org/api/docs/v1"
)

// InsertTable appends a table at the current document end using the
// two-phase protocol: create the empty table, wait out propagation, re-fetch
// to discover the live element, fill cells in reverse order, optionally bold
// the header row from a fresh read, and terminate with a trailing newline so
// following content does not run into the last cell.
//
// If the created table cannot be located after the propagation wait, the
// fill and header steps are skipped: the document keeps an empty table and
// no error is raised.
func (e *Engine) InsertTable(ctx context.Context, docID string, rows [][]string, boldHeader bool) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	nRows, nCols := tableDims(rows)

	at, err := e.EndIndex(ctx, docID)
	if err != nil {
		return 0, err
	}

	err = e.batchUpdate(ctx, docID, []*docs.Request{{
		InsertTable: &docs.InsertTableRequest{
			Location: &docs.Location{Index: at},
			Rows:     int64(nRows),
			Columns:  int64(nCols),
		},
	}})
	if err != nil {
		return 0, fmt.Errorf("create %dx%d table: %w", nRows, nCols, err)
	}
	// Table creation is elastic: the resulting element tree is not
	// synchronously known, so this wait is a correctness wait, not a
	// throughput throttle.
	if err := e.pause(ctx, e.Propagation); err != nil {
		return 0, err
	}

	doc, err := e.getDoc(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("re-fetch document after table create: %w", err)
	}
	table := findTableAt(doc, at)
	if table != nil {
		if fills := cellFillRequests(table, rows); len(fills) > 0 {
			if err := e.batchUpdate(ctx, docID, fills); err != nil {
				return 0, fmt.Errorf("fill table cells: %w", err)
			}
			if err := e.pause(ctx, e.Settle); err != nil {
				return 0, err
			}
		}

		if boldHeader {
			// Cell fills moved element boundaries; header offsets need a
			// fresh read.
			doc, err = e.getDoc(ctx, docID)
			if err != nil {
				return 0, fmt.Errorf("re-fetch document after cell fill: %w", err)
			}
			if t := findTableAt(doc, at); t != nil {
				if bolds := headerBoldRequests(t); len(bolds) > 0 {
					if err := e.batchUpdate(ctx, docID, bolds); err != nil {
						return 0, fmt.Errorf("bold header row: %w", err)
					}
					if err := e.pause(ctx, e.Settle); err != nil {
						return 0, err
					}
				}
			}
		}
	}

	end, err := e.EndIndex(ctx, docID)
	if err != nil {
		return 0, err
	}
	err = e.batchUpdate(ctx, docID, []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: end},
			Text:     "\n",
		},
	}})
	if err != nil {
		return 0, fmt.Errorf("append newline after table: %w", err)
	}
	if err := e.pause(ctx, e.Settle); err != nil {
		return 0, err
	}
	return end + 1, nil
}

// tableDims returns the row count and the maximum column count across rows.
func tableDims(rows [][]string) (int, int) {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return len(rows), cols
}

// findTableAt returns the first table element whose start offset is at or
// after min — the just-created table when min is the pre-insertion end
// index. Returns nil if no such table exists.
func findTableAt(doc *docs.Document, min int64) *docs.Table {
	if doc == nil || doc.Body == nil {
		return nil
	}
	for _, elem := range doc.Body.Content {
		if elem.Table != nil && elem.StartIndex >= min {
			return elem.Table
		}
	}
	return nil
}

// cellFillRequests builds the fill batch for a discovered table. Cells are
// addressed through the table's own structure at cell.StartIndex+1 (one past
// the cell boundary), and emitted in reverse row/column order: filling
// last-to-first leaves every not-yet-processed cell's address valid, since
// an earlier insertion would shift all textually later cells.
func cellFillRequests(table *docs.Table, rows [][]string) []*docs.Request {
	var reqs []*docs.Request
	for r := len(table.TableRows) - 1; r >= 0; r-- {
		row := table.TableRows[r]
		for c := len(row.TableCells) - 1; c >= 0; c-- {
			if r >= len(rows) || c >= len(rows[r]) {
				continue // ragged source row, cell left empty
			}
			text := rows[r][c]
			if text == "" {
				continue
			}
			reqs = append(reqs, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: row.TableCells[c].StartIndex + 1},
					Text:     text,
				},
			})
		}
	}
	return reqs
}

// headerBoldRequests bolds every cell of the table's first row, addressed by
// post-fill offsets.
func headerBoldRequests(table *docs.Table) []*docs.Request {
	if len(table.TableRows) == 0 {
		return nil
	}
	var reqs []*docs.Request
	for _, cell := range table.TableRows[0].TableCells {
		start := cell.StartIndex + 1
		end := cell.EndIndex - 1
		if start >= end {
			continue
		}
		reqs = append(reqs, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     &docs.Range{StartIndex: start, EndIndex: end},
				TextStyle: &docs.TextStyle{Bold: true},
				Fields:    "bold",
			},
		})
	}
	return reqs
}
