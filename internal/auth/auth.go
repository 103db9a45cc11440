// Package auth builds authenticated Docs and Drive services. OAuth client
// credentials live in the config dir; per-account refresh tokens are cached
// in the system keyring.
package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/docpush/docpush/internal/config"
)

const keyringService = "docpush"

var scopes = []string{
	docs.DocumentsScope,
	drive.DriveFileScope,
}

// NewDocs returns a Docs service authenticated for account.
func NewDocs(ctx context.Context, account string) (*docs.Service, error) {
	ts, err := tokenSource(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := docs.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return svc, nil
}

// NewDrive returns a Drive service authenticated for account.
func NewDrive(ctx context.Context, account string) (*drive.Service, error) {
	ts, err := tokenSource(ctx, account)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

func oauthConfig() (*oauth2.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "client_secret.json")
	data, err := os.ReadFile(path) // #nosec G304 -- fixed path under the user config dir
	if err != nil {
		return nil, fmt.Errorf("read OAuth client secret %s (download it from the Google Cloud console): %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse OAuth client secret: %w", err)
	}
	return cfg, nil
}

func openKeyring() (keyring.Keyring, error) {
	kr, err := keyring.Open(keyring.Config{ServiceName: keyringService})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return kr, nil
}

func tokenKey(account string) string { return "token:" + account }

func tokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	cfg, err := oauthConfig()
	if err != nil {
		return nil, err
	}
	kr, err := openKeyring()
	if err != nil {
		return nil, err
	}
	item, err := kr.Get(tokenKey(account))
	if err != nil {
		return nil, fmt.Errorf("no cached token for %q (run `docpush login --account %s`): %w", account, account, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(item.Data, &tok); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	// ReuseTokenSource persists refreshed tokens back to the keyring.
	return oauth2.ReuseTokenSource(&tok, &savingSource{
		base:    cfg.TokenSource(ctx, &tok),
		kr:      kr,
		account: account,
	}), nil
}

// savingSource wraps a refreshing token source and writes every new token
// back to the keyring.
type savingSource struct {
	base    oauth2.TokenSource
	kr      keyring.Keyring
	account string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if err := saveToken(s.kr, s.account, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(kr keyring.Keyring, account string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := kr.Set(keyring.Item{Key: tokenKey(account), Data: data}); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Authorize runs the interactive out-of-band OAuth flow for account and
// caches the resulting token.
func Authorize(ctx context.Context, account string) error {
	cfg, err := oauthConfig()
	if err != nil {
		return err
	}
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "Open the following URL, authorize %s, then paste the code:\n%s\n> ", account, url)

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}
	tok, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	kr, err := openKeyring()
	if err != nil {
		return err
	}
	return saveToken(kr, account, tok)
}
