package gdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpush/docpush/internal/markdown"
)

func TestCompileHeadingAndSpans(t *testing.T) {
	blocks := markdown.Parse("# Title\n\nSome **bold** and *italic* text.\n")
	units := Compile(blocks)
	require.Len(t, units, 1)
	seg := units[0].Segment
	require.NotNil(t, seg)

	assert.Equal(t, "Title\n\nSome bold and italic text.\n", seg.Text)

	require.Len(t, seg.Headings, 1)
	assert.Equal(t, HeadingRange{Range{0, 5}, 1}, seg.Headings[0])
	assert.Equal(t, "Title", seg.Text[seg.Headings[0].Start:seg.Headings[0].End])

	require.Len(t, seg.Bold, 1)
	assert.Equal(t, "bold", seg.Text[seg.Bold[0].Start:seg.Bold[0].End])
	require.Len(t, seg.Italic, 1)
	assert.Equal(t, "italic", seg.Text[seg.Italic[0].Start:seg.Italic[0].End])
}

func TestCompileCodeBlockRangeIncludesNewline(t *testing.T) {
	blocks := markdown.Parse("```go\nx := 1\n```\n")
	units := Compile(blocks)
	require.Len(t, units, 1)
	seg := units[0].Segment
	require.NotNil(t, seg)
	assert.Equal(t, "x := 1\n", seg.Text)
	require.Len(t, seg.Code, 1)
	// The whole block renders monospace, trailing newline included.
	assert.Equal(t, Range{0, int64(len(seg.Text))}, seg.Code[0])
}

func TestCompileTableClosesSegment(t *testing.T) {
	blocks := markdown.Parse("before\n| a | b |\n| 1 | 2 |\nafter\n")
	units := Compile(blocks)
	require.Len(t, units, 3)
	require.NotNil(t, units[0].Segment)
	assert.Equal(t, "before\n", units[0].Segment.Text)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, units[1].Table)
	require.NotNil(t, units[2].Segment)
	assert.Equal(t, "after\n", units[2].Segment.Text)
}

func TestCompileOnlyBlanksProducesNothing(t *testing.T) {
	assert.Empty(t, Compile(markdown.Parse("\n\n---\n\n")))
}

func TestCompileOnlyTableProducesNoSegment(t *testing.T) {
	units := Compile(markdown.Parse("| a |\n| 1 |\n"))
	require.Len(t, units, 1)
	assert.Nil(t, units[0].Segment)
	assert.NotEmpty(t, units[0].Table)
}

func TestCompileBlankRendersEmptyLine(t *testing.T) {
	units := Compile(markdown.Parse("a\n\nb\n"))
	require.Len(t, units, 1)
	assert.Equal(t, "a\n\nb\n", units[0].Segment.Text)
}
