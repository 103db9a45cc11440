package gdoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/docpush/docpush/internal/markdown"
)

// Inline images are placed at a fixed display size.
const (
	imageWidthPt  = 400
	imageHeightPt = 300
)

// Uploader places a local file on a sharing backend and returns a stable
// publicly readable URL the Docs image fetcher can reach.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// DriveUploader uploads images to Google Drive and grants anyone/reader.
type DriveUploader struct {
	Drive *drive.Service
}

var imageMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// Upload creates the Drive file with its content type, makes it publicly
// readable, and returns its download link.
func (u *DriveUploader) Upload(ctx context.Context, path string) (string, error) {
	mimeType, ok := imageMimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q (use PNG, JPG, or GIF)", filepath.Ext(path))
	}

	f, err := os.Open(path) // #nosec G304 -- path resolved under the caller's image dir
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	file, err := u.Drive.Files.Create(&drive.File{
		Name:     filepath.Base(path),
		MimeType: mimeType,
	}).Media(f).Fields("id, webContentLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload to Drive: %w", err)
	}

	_, err = u.Drive.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("set image permissions: %w", err)
	}

	url := file.WebContentLink
	if url == "" {
		got, err := u.Drive.Files.Get(file.Id).Fields("webContentLink").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("get image URL: %w", err)
		}
		url = got.WebContentLink
	}
	if url == "" {
		return "", fmt.Errorf("no public URL for uploaded image %q", path)
	}
	return url, nil
}

// ImagePass runs once after all chunks are inserted: it locates placeholder
// paragraphs in the live document, uploads the referenced local images, and
// substitutes placeholders with inline images in reverse document order.
// Descriptors whose local file is missing are skipped silently. Returns the
// number of images placed.
func (e *Engine) ImagePass(ctx context.Context, docID string, refs []markdown.ImageRef, up Uploader, baseDir string) (int, error) {
	doc, err := e.getDoc(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("get document: %w", err)
	}
	ranges := placeholderRanges(doc, markdown.Placeholder)
	if len(ranges) == 0 || len(refs) == 0 {
		return 0, nil
	}

	var urls []string
	for _, ref := range refs {
		path := resolveImagePath(baseDir, ref.Path)
		if _, err := os.Stat(path); err != nil {
			continue // missing file: no substitution, no error
		}
		url, err := up.Upload(ctx, path)
		if err != nil {
			return 0, fmt.Errorf("upload %q: %w", ref.Path, err)
		}
		urls = append(urls, url)
	}
	if len(urls) == 0 {
		return 0, nil
	}

	reqs := imageRequests(ranges, urls)
	if len(reqs) == 0 {
		return 0, nil
	}
	if err := e.batchUpdate(ctx, docID, reqs); err != nil {
		return 0, fmt.Errorf("replace placeholders: %w", err)
	}
	if err := e.pause(ctx, e.Settle); err != nil {
		return 0, err
	}
	return len(reqs) / 2, nil
}

// resolveImagePath resolves a descriptor path against the image base dir.
func resolveImagePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// placeholderRanges scans top-level paragraphs for ones whose rendered text
// contains the placeholder marker, returning each match's content range
// (trailing paragraph newline excluded) in document order. That order aligns
// with the ordinal order the preprocessor assigned.
func placeholderRanges(doc *docs.Document, marker string) []Range {
	var ranges []Range
	if doc == nil || doc.Body == nil {
		return nil
	}
	for _, elem := range doc.Body.Content {
		if elem.Paragraph == nil {
			continue
		}
		var text strings.Builder
		for _, pe := range elem.Paragraph.Elements {
			if pe.TextRun != nil {
				text.WriteString(pe.TextRun.Content)
			}
		}
		if !strings.Contains(text.String(), marker) {
			continue
		}
		end := elem.EndIndex - 1 // keep the paragraph's newline
		if elem.StartIndex >= end {
			continue
		}
		ranges = append(ranges, Range{elem.StartIndex, end})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return ranges
}

// imageRequests pairs the first N placeholder ranges with the first N
// uploaded URLs (N = min of both counts) and emits delete+insert request
// pairs in reverse document order, so a pending earlier offset is never
// invalidated by a later mutation.
func imageRequests(ranges []Range, urls []string) []*docs.Request {
	n := len(ranges)
	if len(urls) < n {
		n = len(urls)
	}

	reqs := make([]*docs.Request, 0, n*2)
	for i := n - 1; i >= 0; i-- {
		r := ranges[i]
		reqs = append(reqs, &docs.Request{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{StartIndex: r.Start, EndIndex: r.End},
			},
		})
		reqs = append(reqs, &docs.Request{
			InsertInlineImage: &docs.InsertInlineImageRequest{
				Uri:      urls[i],
				Location: &docs.Location{Index: r.Start},
				ObjectSize: &docs.Size{
					Width:  &docs.Dimension{Magnitude: imageWidthPt, Unit: "PT"},
					Height: &docs.Dimension{Magnitude: imageHeightPt, Unit: "PT"},
				},
			},
		})
	}
	return reqs
}
