// Package outfmt switches command output between human-readable lines and
// a single JSON object, selected by the root --json flag.
package outfmt

import (
	"context"
	"encoding/json"
	"io"
)

type ctxKey struct{}

// WithJSON marks the context for JSON output.
func WithJSON(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, enabled)
}

// IsJSON reports whether the command should emit JSON.
func IsJSON(ctx context.Context) bool {
	v, ok := ctx.Value(ctxKey{}).(bool)
	return ok && v
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
