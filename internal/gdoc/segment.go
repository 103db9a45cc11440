// Package gdoc owns the rate-limited Google Docs mutation protocol: segment
// compilation, bulk text insertion with batched style updates, the
// multi-step table insertion protocol, and the placeholder image pass.
package gdoc

import (
	"strings"

	"github.com/docpush/docpush/internal/markdown"
)

// Range is a half-open offset range into a segment's text.
type Range struct {
	Start int64
	End   int64
}

// HeadingRange is a heading-styled range tagged with its level.
type HeadingRange struct {
	Range
	Level int
}

// Segment is a contiguous run of non-table blocks compiled into one bulk
// insertion plus one formatting batch. All ranges are relative to Text and
// are shifted by the insertion point at request-build time. Segments are
// transient: built, flushed, discarded.
type Segment struct {
	Text     string
	Headings []HeadingRange
	Bold     []Range
	Italic   []Range
	Code     []Range
}

// Unit is one insertion step in document order: either a text segment or a
// table. Exactly one field is set.
type Unit struct {
	Segment *Segment
	Table   [][]string
}

// Compile groups a chunk's blocks into insertion units. Consecutive
// non-table blocks accumulate into one segment; a table closes the current
// segment and becomes its own unit. Segments with empty rendered text are
// not emitted.
func Compile(blocks []markdown.Block) []Unit {
	var units []Unit
	var text strings.Builder
	var seg Segment

	flush := func() {
		// All-newline text means the run held only blank lines; there is
		// nothing to insert or style.
		if strings.Trim(text.String(), "\n") == "" {
			text.Reset()
			seg = Segment{}
			return
		}
		seg.Text = text.String()
		s := seg
		units = append(units, Unit{Segment: &s})
		text.Reset()
		seg = Segment{}
	}

	for _, b := range blocks {
		switch b.Kind {
		case markdown.BlockHeading:
			start := int64(text.Len())
			text.WriteString(b.Text)
			if end := int64(text.Len()); end > start {
				seg.Headings = append(seg.Headings, HeadingRange{Range{start, end}, b.Level})
			}
			text.WriteByte('\n')

		case markdown.BlockParagraph:
			cursor := int64(text.Len())
			text.WriteString(b.Text)
			text.WriteByte('\n')
			for _, sp := range b.Spans {
				if sp.Start >= sp.End {
					continue
				}
				r := Range{cursor + int64(sp.Start), cursor + int64(sp.End)}
				switch sp.Kind {
				case markdown.SpanBold:
					seg.Bold = append(seg.Bold, r)
				case markdown.SpanItalic:
					seg.Italic = append(seg.Italic, r)
				case markdown.SpanCode:
					seg.Code = append(seg.Code, r)
				}
			}

		case markdown.BlockCode:
			start := int64(text.Len())
			text.WriteString(b.Text)
			text.WriteByte('\n')
			// The whole block renders in the monospace font, trailing
			// newline included.
			seg.Code = append(seg.Code, Range{start, int64(text.Len())})

		case markdown.BlockBlank:
			text.WriteByte('\n')

		case markdown.BlockTable:
			flush()
			units = append(units, Unit{Table: b.Rows})
		}
	}
	flush()

	return units
}
