package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/docpush/docpush/internal/auth"
	"github.com/docpush/docpush/internal/outfmt"
	"github.com/docpush/docpush/internal/ui"
)

// LoginCmd runs the interactive OAuth flow and caches the account token in
// the system keyring.
type LoginCmd struct{}

func (c *LoginCmd) Run(ctx context.Context, flags *RootFlags) error {
	u := ui.FromContext(ctx)

	account := strings.TrimSpace(flags.Account)
	if account == "" {
		// Login must name the account explicitly; falling back to the config
		// file here would silently re-authorize the wrong identity.
		return usage("login requires --account")
	}

	if err := auth.Authorize(ctx, account); err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"operation": "login",
			"account":   account,
		})
	}
	u.Outf("authorized\t%s", account)
	return nil
}
