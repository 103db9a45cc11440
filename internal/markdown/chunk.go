package markdown

import "strings"

// DefaultChunkSize caps one chunk's byte length so that a single chunk's
// insertion and formatting stay within one quota-sized burst.
const DefaultChunkSize = 20000

// SplitChunks splits text into the fewest line-aligned pieces whose byte
// length does not exceed max. A single line longer than max is kept whole
// and may exceed the cap. The concatenation of the returned chunks is
// exactly the input.
func SplitChunks(text string, max int) []string {
	if max <= 0 {
		max = DefaultChunkSize
	}

	var chunks []string
	start := 0 // chunk start
	cur := start

	for cur < len(text) {
		lineEnd := len(text)
		if nl := strings.IndexByte(text[cur:], '\n'); nl >= 0 {
			lineEnd = cur + nl + 1
		}
		if lineEnd-start > max && cur > start {
			chunks = append(chunks, text[start:cur])
			start = cur
		}
		cur = lineEnd
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}
