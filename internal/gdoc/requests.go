package gdoc

import (
	"fmt"

	"google.golang.org/api/docs/v1"
)

// DefaultCodeFont is the monospace family applied to code ranges.
const DefaultCodeFont = "Consolas"

// maxBatchOps is the per-batchUpdate request ceiling imposed by the API.
const maxBatchOps = 500

// StyleRequests compiles a segment's formatting batch for text inserted at
// the given index. Order is load-bearing: heading paragraph-style updates
// first, applied last-to-first so a higher-offset update never perturbs a
// lower-offset range still pending, then bold, italic, and code text-style
// updates (length-preserving, so their relative order is free).
func (s *Segment) StyleRequests(at int64, codeFont string) []*docs.Request {
	if codeFont == "" {
		codeFont = DefaultCodeFont
	}
	var reqs []*docs.Request

	for i := len(s.Headings) - 1; i >= 0; i-- {
		h := s.Headings[i]
		if h.Start >= h.End {
			continue
		}
		reqs = append(reqs, &docs.Request{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range: &docs.Range{StartIndex: at + h.Start, EndIndex: at + h.End},
				ParagraphStyle: &docs.ParagraphStyle{
					NamedStyleType: fmt.Sprintf("HEADING_%d", h.Level),
				},
				Fields: "namedStyleType",
			},
		})
	}

	for _, r := range s.Bold {
		if r.Start >= r.End {
			continue
		}
		reqs = append(reqs, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     &docs.Range{StartIndex: at + r.Start, EndIndex: at + r.End},
				TextStyle: &docs.TextStyle{Bold: true},
				Fields:    "bold",
			},
		})
	}

	for _, r := range s.Italic {
		if r.Start >= r.End {
			continue
		}
		reqs = append(reqs, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     &docs.Range{StartIndex: at + r.Start, EndIndex: at + r.End},
				TextStyle: &docs.TextStyle{Italic: true},
				Fields:    "italic",
			},
		})
	}

	for _, r := range s.Code {
		if r.Start >= r.End {
			continue
		}
		reqs = append(reqs, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: &docs.Range{StartIndex: at + r.Start, EndIndex: at + r.End},
				TextStyle: &docs.TextStyle{
					WeightedFontFamily: &docs.WeightedFontFamily{FontFamily: codeFont},
				},
				Fields: "weightedFontFamily",
			},
		})
	}

	return reqs
}

// sliceRequests splits a request list into sub-batches of at most max items.
func sliceRequests(reqs []*docs.Request, max int) [][]*docs.Request {
	if max <= 0 {
		max = maxBatchOps
	}
	var out [][]*docs.Request
	for len(reqs) > max {
		out = append(out, reqs[:max])
		reqs = reqs[max:]
	}
	if len(reqs) > 0 {
		out = append(out, reqs)
	}
	return out
}
