// Package cli is the interactive terminal client: account commands, the
// file dashboard and the vault-gated password list.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dkarlovs/cloudvault/internal/client/api"
	"github.com/dkarlovs/cloudvault/internal/client/config"
	"github.com/dkarlovs/cloudvault/internal/unlock"
	"github.com/dkarlovs/cloudvault/internal/vaultseal"
)

type App struct {
	config   *config.Config
	api      *api.Client
	sealer   *vaultseal.Sealer
	vault    *unlock.Session
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		sealer: vaultseal.New(c.VaultSharedSecret),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.IsAuthenticated()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

// remoteStore adapts the API client to the unlock.CredentialStore the
// session state machine expects.
type remoteStore struct {
	api vaultAPI
}

type vaultAPI interface {
	GetVaultCredential(ctx context.Context) (*api.VaultCredential, error)
	SetVaultCredential(ctx context.Context, secretKind, cipherText string) error
	VerifyPassword(ctx context.Context, password []byte) error
}

func (r remoteStore) Get(ctx context.Context) (*unlock.Credential, error) {
	cred, err := r.api.GetVaultCredential(ctx)
	if err != nil {
		return nil, err
	}
	return &unlock.Credential{SecretKind: cred.SecretKind, CipherText: cred.CipherText}, nil
}

func (r remoteStore) Put(ctx context.Context, secretKind, cipherText string) error {
	return r.api.SetVaultCredential(ctx, secretKind, cipherText)
}

// remoteGate adapts account password verification to unlock.ResetGate.
type remoteGate struct {
	api vaultAPI
}

func (r remoteGate) VerifyPrimaryCredential(ctx context.Context, candidate string) error {
	return r.api.VerifyPassword(ctx, []byte(candidate))
}
