package gdoc

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
)

// Text fetches the document and returns its body as plain text. Paragraph
// content keeps its trailing newlines; table rows are rendered one per line
// with tab-separated cells.
func (e *Engine) Text(ctx context.Context, docID string) (string, error) {
	doc, err := e.getDoc(ctx, docID)
	if err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}
	return documentText(doc), nil
}

func documentText(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	var sb strings.Builder
	for _, elem := range doc.Body.Content {
		switch {
		case elem.Paragraph != nil:
			sb.WriteString(paragraphText(elem.Paragraph))
		case elem.Table != nil:
			for _, row := range elem.Table.TableRows {
				cells := make([]string, 0, len(row.TableCells))
				for _, cell := range row.TableCells {
					cells = append(cells, cellText(cell))
				}
				sb.WriteString(strings.Join(cells, "\t"))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func paragraphText(p *docs.Paragraph) string {
	// Fast path: single text run (most common case) avoids Builder allocation.
	if len(p.Elements) == 1 && p.Elements[0].TextRun != nil {
		return p.Elements[0].TextRun.Content
	}
	var sb strings.Builder
	for _, elem := range p.Elements {
		if elem.TextRun != nil {
			sb.WriteString(elem.TextRun.Content)
		}
	}
	return sb.String()
}

func cellText(cell *docs.TableCell) string {
	if cell == nil {
		return ""
	}
	var sb strings.Builder
	for _, elem := range cell.Content {
		if elem.Paragraph != nil {
			sb.WriteString(paragraphText(elem.Paragraph))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
