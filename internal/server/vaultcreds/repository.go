package vaultcreds

import (
	"context"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*Credential, error)
	Upsert(ctx context.Context, cred *Credential) error
}
