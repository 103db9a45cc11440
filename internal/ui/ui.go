// Package ui provides the terminal output surface carried through context:
// plain key/value lines on stdout, colorized diagnostics on stderr.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

type ctxKey struct{}

// UI writes command output and diagnostics. Out is for results, Err for
// progress and errors; Verbosef output only appears with --verbose.
type UI struct {
	out     io.Writer
	err     io.Writer
	profile termenv.Profile
	verbose bool
}

// New builds a UI for the process's stdio. Color is enabled only when
// stderr is a terminal.
func New(verbose bool) *UI {
	profile := termenv.Ascii
	if term.IsTerminal(int(os.Stderr.Fd())) {
		profile = termenv.EnvColorProfile()
	}
	return &UI{out: os.Stdout, err: os.Stderr, profile: profile, verbose: verbose}
}

// NewForTest builds a UI writing to the given writers with color disabled.
func NewForTest(out, err io.Writer, verbose bool) *UI {
	return &UI{out: out, err: err, profile: termenv.Ascii, verbose: verbose}
}

// WithUI attaches u to the context.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the context's UI, or a quiet default.
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(ctxKey{}).(*UI); ok {
		return u
	}
	return New(false)
}

// Outf writes a result line to stdout.
func (u *UI) Outf(format string, args ...any) {
	fmt.Fprintf(u.out, format+"\n", args...)
}

// Errorf writes an error line to stderr, tagged in red on terminals.
func (u *UI) Errorf(format string, args ...any) {
	tag := termenv.String("error:").Foreground(u.profile.Color("1")).String()
	fmt.Fprintf(u.err, "%s "+format+"\n", append([]any{tag}, args...)...)
}

// Progressf writes a progress line to stderr.
func (u *UI) Progressf(format string, args ...any) {
	fmt.Fprintf(u.err, format+"\n", args...)
}

// Verbosef writes a diagnostic line to stderr when verbose mode is on.
func (u *UI) Verbosef(format string, args ...any) {
	if !u.verbose {
		return
	}
	fmt.Fprintf(u.err, format+"\n", args...)
}
