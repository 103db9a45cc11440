package gdoc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/docs/v1"
)

// Pacing fixed pauses. Settle waits let a committed edit become consistent
// before the next dependent write; the propagation wait after table creation
// is longer because the resulting element tree is not synchronously known.
const (
	settlePause      = 1 * time.Second
	propagationPause = 4 * time.Second
	recoveryPause    = 10 * time.Second

	// Sub-batches at least this large get a pause between them; smaller
	// slices cannot plausibly exhaust the write quota on their own.
	pauseBatchThreshold = 100
)

// Engine drives all mutations against one document through the quota-limited
// batchUpdate API. Execution is strictly sequential: the document's offset
// space is a single shared mutable resource, so there is no parallel fan-out.
type Engine struct {
	svc *docs.Service

	// Pause durations, overridable for tests.
	Settle      time.Duration
	Propagation time.Duration
	Recovery    time.Duration
}

// NewEngine returns an engine with production pacing.
func NewEngine(svc *docs.Service) *Engine {
	return &Engine{
		svc:         svc,
		Settle:      settlePause,
		Propagation: propagationPause,
		Recovery:    recoveryPause,
	}
}

// pause sleeps for d unless the context ends first.
func (e *Engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RecoveryPause is the longer sleep taken after a chunk-level failure before
// moving on to the next chunk.
func (e *Engine) RecoveryPause(ctx context.Context) error {
	return e.pause(ctx, e.Recovery)
}

// getDoc fetches the document with retry-on-quota.
func (e *Engine) getDoc(ctx context.Context, docID string) (*docs.Document, error) {
	var doc *docs.Document
	err := retryOnQuota(ctx, func() error {
		var err error
		doc, err = e.svc.Documents.Get(docID).Context(ctx).Do()
		return err
	})
	return doc, err
}

// batchUpdate submits requests with retry-on-quota, slicing at the API's
// per-batch item ceiling. Large sub-batches are separated by a settle pause.
func (e *Engine) batchUpdate(ctx context.Context, docID string, reqs []*docs.Request) error {
	for i, slice := range sliceRequests(reqs, maxBatchOps) {
		if i > 0 && len(slice) >= pauseBatchThreshold {
			if err := e.pause(ctx, e.Settle); err != nil {
				return err
			}
		}
		batch := slice
		err := retryOnQuota(ctx, func() error {
			_, err := e.svc.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
				Requests: batch,
			}).Context(ctx).Do()
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// EndIndex freshly reads the document's insertion cursor: one less than the
// end offset of the last top-level content element. It must be re-read
// before any insertion not provably contiguous with a just-completed local
// one; a cached value is never valid across a table creation.
func (e *Engine) EndIndex(ctx context.Context, docID string) (int64, error) {
	doc, err := e.getDoc(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("get document: %w", err)
	}
	return bodyEndIndex(doc), nil
}

func bodyEndIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	last := doc.Body.Content[len(doc.Body.Content)-1]
	end := last.EndIndex - 1
	if end < 1 {
		end = 1
	}
	return end
}

// InsertSegment flushes one compiled segment: a single bulk text insertion
// at the fresh end index, a settle pause, then one formatting batch. Returns
// the end index after the insertion, which is locally computable and may be
// reused by a directly following contiguous insertion.
func (e *Engine) InsertSegment(ctx context.Context, docID string, seg *Segment, codeFont string) (int64, error) {
	if seg == nil || seg.Text == "" {
		return 0, nil
	}

	at, err := e.EndIndex(ctx, docID)
	if err != nil {
		return 0, err
	}

	err = e.batchUpdate(ctx, docID, []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: at},
			Text:     seg.Text,
		},
	}})
	if err != nil {
		return 0, fmt.Errorf("insert segment text: %w", err)
	}
	if err := e.pause(ctx, e.Settle); err != nil {
		return 0, err
	}

	if styles := seg.StyleRequests(at, codeFont); len(styles) > 0 {
		if err := e.batchUpdate(ctx, docID, styles); err != nil {
			return 0, fmt.Errorf("apply segment styles: %w", err)
		}
		if err := e.pause(ctx, e.Settle); err != nil {
			return 0, err
		}
	}

	return at + int64(len(seg.Text)), nil
}

// ClearAfter deletes [after, end) ahead of any insertion, preserving
// template content at and below floor. It refuses to delete below the
// caller-supplied template boundary.
func (e *Engine) ClearAfter(ctx context.Context, docID string, after, floor int64) error {
	if after < floor {
		return fmt.Errorf("clear-after offset %d is below template boundary %d", after, floor)
	}
	if after < 1 {
		after = 1
	}
	end, err := e.EndIndex(ctx, docID)
	if err != nil {
		return err
	}
	if after >= end {
		return nil
	}
	err = e.batchUpdate(ctx, docID, []*docs.Request{{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{StartIndex: after, EndIndex: end},
		},
	}})
	if err != nil {
		return fmt.Errorf("clear content after %d: %w", after, err)
	}
	return e.pause(ctx, e.Settle)
}
