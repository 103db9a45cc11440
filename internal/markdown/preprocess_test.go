package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessDiagramFence(t *testing.T) {
	in := "before\n```mermaid\ngraph TD\nA-->B\n```\nafter\n"
	out, refs := Preprocess(in)
	assert.Empty(t, refs)
	assert.Equal(t, "before\n"+Placeholder+"\nafter\n", out)
	assert.NotContains(t, out, "graph TD")
	assert.NotContains(t, out, "A-->B")
}

func TestPreprocessImageLine(t *testing.T) {
	in := "intro\n![chart](img/chart.png)\noutro\n"
	out, refs := Preprocess(in)
	require.Len(t, refs, 1)
	assert.Equal(t, ImageRef{Alt: "chart", Path: "img/chart.png", Ordinal: 0}, refs[0])
	assert.Equal(t, "intro\n"+Placeholder+"\noutro\n", out)
}

func TestPreprocessSharedOrdinalSpace(t *testing.T) {
	in := "```mermaid\nx\n```\n![a](a.png)\n```mermaid\ny\n```\n![b](b.png)\n"
	out, refs := Preprocess(in)
	require.Len(t, refs, 2)
	// Diagrams occupy ordinals 0 and 2 in the shared placeholder stream.
	assert.Equal(t, 1, refs[0].Ordinal)
	assert.Equal(t, 3, refs[1].Ordinal)
	assert.Equal(t, 4, strings.Count(out, Placeholder))
}

func TestPreprocessLeavesOtherFencesAlone(t *testing.T) {
	in := "```go\n![not an image](x.png)\n```\n"
	out, refs := Preprocess(in)
	assert.Empty(t, refs)
	assert.Equal(t, in, out)
}

func TestPreprocessInlineImageNotExtracted(t *testing.T) {
	// Only lines that are solely an image reference are rewritten.
	in := "see ![x](a.png) here\n"
	out, refs := Preprocess(in)
	assert.Empty(t, refs)
	assert.Equal(t, in, out)
}

func TestPreprocessUnterminatedDiagram(t *testing.T) {
	out, refs := Preprocess("```mermaid\nx\ny")
	assert.Empty(t, refs)
	assert.Equal(t, Placeholder, out)
}
