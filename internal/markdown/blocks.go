package markdown

import (
	"regexp"
	"strings"
)

// BlockKind tags a parsed block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockCode
	BlockTable
	BlockBlank
)

// Block is one parsed unit of the source document. Blocks are immutable
// after parsing: the segment compiler and table inserter consume them once.
type Block struct {
	Kind  BlockKind
	Level int        // heading level 1..4
	Text  string     // rendered text for heading/paragraph/code
	Lang  string     // fence info string for code blocks
	Spans []Span     // inline spans for paragraphs
	Rows  [][]string // table rows, header row first
}

// List glyph prefixes prepended to rendered paragraph text.
const (
	bulletGlyph    = "• "
	checkedGlyph   = "☑ "
	uncheckedGlyph = "☐ "
)

// headingPrefixes is ordered longest-first so "#### " is never matched by "# ".
var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"#### ", 4},
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

var (
	checkboxRe = regexp.MustCompile(`^[-*] \[([ xX])\] `)
	numberedRe = regexp.MustCompile(`^\d+\. `)
)

// Parse consumes the full document line-by-line and returns the ordered
// block sequence. Lines are right-stripped before dispatch; malformed
// constructs degrade to plain text rather than erroring.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	// A trailing newline yields one empty trailing element; drop it so it
	// does not parse as an extra blank line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var blocks []Block
	i := 0
	for i < len(lines) {
		line := lines[i]

		if lvl := headingLevel(line); lvl > 0 {
			blocks = append(blocks, Block{
				Kind:  BlockHeading,
				Level: lvl,
				Text:  line[lvl+1:],
			})
			i++
			continue
		}

		if strings.HasPrefix(line, "```") {
			block, next := parseFence(lines, i)
			blocks = append(blocks, block)
			i = next
			continue
		}

		if isTableLine(line) {
			rows, next := parseTable(lines, i)
			// Header-only and all-separator tables carry no data; drop them.
			if len(rows) > 1 {
				blocks = append(blocks, Block{Kind: BlockTable, Rows: rows})
			}
			i = next
			continue
		}

		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			glyph := uncheckedGlyph
			if m[1] == "x" || m[1] == "X" {
				glyph = checkedGlyph
			}
			rendered, spans := ParseInline(line[len(m[0]):])
			blocks = append(blocks, Block{
				Kind:  BlockParagraph,
				Text:  glyph + rendered,
				Spans: shiftSpans(spans, len(glyph)),
			})
			i++
			continue
		}

		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			rendered, spans := ParseInline(line[2:])
			blocks = append(blocks, Block{
				Kind:  BlockParagraph,
				Text:  bulletGlyph + rendered,
				Spans: shiftSpans(spans, len(bulletGlyph)),
			})
			i++
			continue
		}

		if m := numberedRe.FindString(line); m != "" {
			rendered, spans := ParseInline(line[len(m):])
			blocks = append(blocks, Block{
				Kind:  BlockParagraph,
				Text:  m + rendered,
				Spans: shiftSpans(spans, len(m)),
			})
			i++
			continue
		}

		if line == "" || line == "---" {
			blocks = append(blocks, Block{Kind: BlockBlank})
			i++
			continue
		}

		rendered, spans := ParseInline(line)
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: rendered, Spans: spans})
		i++
	}

	return blocks
}

func headingLevel(line string) int {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			return h.level
		}
	}
	return 0
}

// parseFence consumes a fenced code block starting at lines[i]. The fence's
// info string becomes the language label. An unterminated fence runs to end
// of input.
func parseFence(lines []string, i int) (Block, int) {
	lang := strings.TrimSpace(strings.TrimPrefix(lines[i], "```"))
	var body []string
	i++
	for i < len(lines) {
		if strings.HasPrefix(lines[i], "```") {
			i++
			break
		}
		body = append(body, lines[i])
		i++
	}
	return Block{Kind: BlockCode, Text: strings.Join(body, "\n"), Lang: lang}, i
}

func isTableLine(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|")
}

// parseTable consumes consecutive pipe-delimited lines starting at lines[i].
// Header-divider rows (cells made only of '-', ':', and spaces) are dropped.
// Parsing stops at the first non-matching line.
func parseTable(lines []string, i int) ([][]string, int) {
	var rows [][]string
	for i < len(lines) && isTableLine(lines[i]) {
		parts := strings.Split(lines[i], "|")
		// Outer pipes produce empty leading/trailing parts.
		parts = parts[1 : len(parts)-1]

		cells := make([]string, 0, len(parts))
		separator := true
		for _, p := range parts {
			cell := strings.TrimSpace(p)
			if strings.Trim(cell, "-: ") != "" {
				separator = false
			}
			cells = append(cells, cell)
		}
		if !separator && len(cells) > 0 {
			rows = append(rows, cells)
		}
		i++
	}
	return rows, i
}
