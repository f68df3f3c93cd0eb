// Package vaultcreds is the server side of the vault credential store:
// one sealed unlock-secret blob per user, fetched and overwritten through
// the HTTP API. The server never sees plaintext vault secrets; it stores
// whatever ciphertext the client produced.
package vaultcreds

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/vaultseal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored credential for userID, or common.ErrorNotFound
// when the user has never set one.
func (s *Service) Get(ctx context.Context, userID string) (*Credential, error) {
	cred, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return cred, nil
}

// Set overwrites the user's credential. secretKind must be a known kind;
// cipherText is opaque (an empty string encodes "not set" and is how a
// reset clears the vault secret).
func (s *Service) Set(ctx context.Context, userID, secretKind, cipherText string) error {
	if secretKind != vaultseal.KindPIN && secretKind != vaultseal.KindPassword {
		return fmt.Errorf("%w: unknown secret kind %q", common.ErrorValidation, secretKind)
	}

	cred := &Credential{
		UserID:     userID,
		SecretKind: secretKind,
		CipherText: cipherText,
	}

	if err := s.repo.Upsert(ctx, cred); err != nil {
		return common.ErrorInternal
	}

	return nil
}
