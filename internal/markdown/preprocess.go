package markdown

import (
	"regexp"
	"strings"
)

// Placeholder is the marker line substituted for diagrams and image
// references during preprocessing. The image pass later locates these
// occurrences in the live document and swaps them for inline images.
const Placeholder = "<<DOCPUSH_IMAGE>>"

// diagramLang is the fence info string that triggers placeholder
// substitution. The fence body is discarded, never rendered.
const diagramLang = "mermaid"

// ImageRef records one extracted image reference. Ordinal is the 0-based
// position of its placeholder among all placeholders emitted so far;
// diagrams and images share the same ordinal space.
type ImageRef struct {
	Alt     string
	Path    string
	Ordinal int
}

var imageLineRe = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)

// Preprocess replaces diagram fences and standalone image-reference lines
// with Placeholder lines, returning the transformed text and the ordered
// image descriptors. It runs before block parsing.
func Preprocess(text string) (string, []ImageRef) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var refs []ImageRef
	ordinal := 0

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimRight(line, " \t\r")

		if strings.HasPrefix(trimmed, "```") {
			lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			if lang == diagramLang {
				// Swallow the whole fence, closing marker included.
				i++
				for i < len(lines) && !strings.HasPrefix(strings.TrimRight(lines[i], " \t\r"), "```") {
					i++
				}
				if i < len(lines) {
					i++
				}
				out = append(out, Placeholder)
				ordinal++
				continue
			}
			// Other fences pass through verbatim; image-looking lines inside
			// them must not be rewritten.
			out = append(out, line)
			i++
			for i < len(lines) {
				out = append(out, lines[i])
				closed := strings.HasPrefix(strings.TrimRight(lines[i], " \t\r"), "```")
				i++
				if closed {
					break
				}
			}
			continue
		}

		if m := imageLineRe.FindStringSubmatch(trimmed); m != nil {
			refs = append(refs, ImageRef{Alt: m[1], Path: m[2], Ordinal: ordinal})
			out = append(out, Placeholder)
			ordinal++
			i++
			continue
		}

		out = append(out, line)
		i++
	}

	return strings.Join(out, "\n"), refs
}
