// Package markdown parses a fixed markdown subset into typed blocks with
// inline style spans, preprocesses diagram/image references into placeholder
// lines, and splits source text into line-aligned chunks.
package markdown

import "strings"

// SpanKind identifies an inline style run.
type SpanKind int

const (
	SpanBold SpanKind = iota
	SpanItalic
	SpanCode
)

// Span is a half-open [Start, End) range into the rendered text of its
// owning block. Offsets count rendered bytes only, never marker characters.
type Span struct {
	Kind  SpanKind
	Start int
	End   int
}

// ParseInline tokenizes a single line for **bold**, *italic*, and `code`
// runs. Markers without a terminator on the same line are emitted as literal
// characters with no span. The scan is left-to-right, first-match-wins per
// position, with no backtracking across marker kinds.
func ParseInline(line string) (string, []Span) {
	var out strings.Builder
	var spans []Span

	i := 0
	for i < len(line) {
		switch {
		case strings.HasPrefix(line[i:], "**"):
			end := strings.Index(line[i+2:], "**")
			if end < 0 {
				out.WriteString("**")
				i += 2
				continue
			}
			start := out.Len()
			out.WriteString(line[i+2 : i+2+end])
			if out.Len() > start {
				spans = append(spans, Span{Kind: SpanBold, Start: start, End: out.Len()})
			}
			i += end + 4

		case line[i] == '`':
			end := findSingleMarker(line[i+1:], '`')
			if end < 0 {
				out.WriteByte('`')
				i++
				continue
			}
			start := out.Len()
			out.WriteString(line[i+1 : i+1+end])
			if out.Len() > start {
				spans = append(spans, Span{Kind: SpanCode, Start: start, End: out.Len()})
			}
			i += end + 2

		case line[i] == '*':
			end := findSingleMarker(line[i+1:], '*')
			if end < 0 {
				out.WriteByte('*')
				i++
				continue
			}
			start := out.Len()
			out.WriteString(line[i+1 : i+1+end])
			if out.Len() > start {
				spans = append(spans, Span{Kind: SpanItalic, Start: start, End: out.Len()})
			}
			i += end + 2

		default:
			out.WriteByte(line[i])
			i++
		}
	}

	return out.String(), spans
}

// findSingleMarker returns the index of the nearest occurrence of marker in s
// that is not the first character of a doubled marker, or -1. A doubled
// marker (`` or **) never terminates a single-marker run.
func findSingleMarker(s string, marker byte) int {
	for j := 0; j < len(s); j++ {
		if s[j] != marker {
			continue
		}
		if j+1 < len(s) && s[j+1] == marker {
			j++ // skip the pair
			continue
		}
		return j
	}
	return -1
}

// shiftSpans offsets every span by n rendered bytes. Used when a list glyph
// or numeric prefix is prepended to the rendered text.
func shiftSpans(spans []Span, n int) []Span {
	for i := range spans {
		spans[i].Start += n
		spans[i].End += n
	}
	return spans
}
