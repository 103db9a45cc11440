// Package cmd defines the docpush command tree.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/docpush/docpush/internal/config"
)

// RootFlags are shared by every command.
type RootFlags struct {
	Account string `short:"a" help:"Google account email to act as."`
	JSON    bool   `name:"json" help:"Emit a JSON result object instead of text."`
	DryRun  bool   `help:"Compute the edit plan without writing to the document."`
	Verbose bool   `short:"v" help:"Print extra diagnostics."`
}

// CLI is the kong command tree.
type CLI struct {
	RootFlags

	Push  PushCmd  `cmd:"" help:"Insert a markdown file into a Google Doc."`
	Cat   CatCmd   `cmd:"" help:"Print a Google Doc's plain text."`
	Clear ClearCmd `cmd:"" help:"Delete document content after an offset."`
	Login LoginCmd `cmd:"" help:"Authorize an account and cache its token."`
}

// usageError marks bad invocations so main can exit with usage help.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usage(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}

// requireAccount resolves the acting account from flags or the config file.
func requireAccount(flags *RootFlags) (string, error) {
	if a := strings.TrimSpace(flags.Account); a != "" {
		return a, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Account != "" {
		return cfg.Account, nil
	}
	return "", usage("no account selected (use --account or set one in the config file)")
}
