package gdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
)

func TestStyleRequestsOrderAndShift(t *testing.T) {
	seg := &Segment{
		Text: "One\nTwo\nbold italic code\n",
		Headings: []HeadingRange{
			{Range{0, 3}, 1},
			{Range{4, 7}, 2},
		},
		Bold:   []Range{{8, 12}},
		Italic: []Range{{13, 19}},
		Code:   []Range{{20, 24}},
	}

	reqs := seg.StyleRequests(10, "")
	require.Len(t, reqs, 5)

	// Headings first, in reverse order.
	require.NotNil(t, reqs[0].UpdateParagraphStyle)
	assert.Equal(t, "HEADING_2", reqs[0].UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
	assert.Equal(t, int64(14), reqs[0].UpdateParagraphStyle.Range.StartIndex)
	require.NotNil(t, reqs[1].UpdateParagraphStyle)
	assert.Equal(t, "HEADING_1", reqs[1].UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
	assert.Equal(t, int64(10), reqs[1].UpdateParagraphStyle.Range.StartIndex)

	// Then bold, italic, code, each shifted by the insertion point.
	assert.Equal(t, "bold", reqs[2].UpdateTextStyle.Fields)
	assert.Equal(t, int64(18), reqs[2].UpdateTextStyle.Range.StartIndex)
	assert.Equal(t, "italic", reqs[3].UpdateTextStyle.Fields)
	assert.Equal(t, "weightedFontFamily", reqs[4].UpdateTextStyle.Fields)
	assert.Equal(t, DefaultCodeFont, reqs[4].UpdateTextStyle.TextStyle.WeightedFontFamily.FontFamily)
}

func TestStyleRequestsCustomFontAndZeroRanges(t *testing.T) {
	seg := &Segment{
		Text: "x\n",
		Bold: []Range{{1, 1}}, // zero-length, skipped
		Code: []Range{{0, 1}},
	}
	reqs := seg.StyleRequests(1, "Roboto Mono")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Roboto Mono", reqs[0].UpdateTextStyle.TextStyle.WeightedFontFamily.FontFamily)
}

// Computing the same segment's plan twice must yield identical request
// lists: the compiler and builders are pure.
func TestStyleRequestsDeterministic(t *testing.T) {
	seg := &Segment{
		Text:     "Title\nbody\n",
		Headings: []HeadingRange{{Range{0, 5}, 1}},
		Bold:     []Range{{6, 10}},
	}
	assert.Equal(t, seg.StyleRequests(42, "Consolas"), seg.StyleRequests(42, "Consolas"))
}

func TestSliceRequests(t *testing.T) {
	mk := func(n int) []*docs.Request {
		reqs := make([]*docs.Request, n)
		for i := range reqs {
			reqs[i] = &docs.Request{}
		}
		return reqs
	}

	assert.Nil(t, sliceRequests(nil, 10))
	assert.Len(t, sliceRequests(mk(10), 10), 1)

	slices := sliceRequests(mk(25), 10)
	require.Len(t, slices, 3)
	assert.Len(t, slices[0], 10)
	assert.Len(t, slices[1], 10)
	assert.Len(t, slices[2], 5)
}
