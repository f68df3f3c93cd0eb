package vaultcreds

import "time"

// Credential is the single vault-unlock record a user may have.
// CipherText is the sealed {secret_kind, secret} blob; an empty string
// means the vault secret is not set.
type Credential struct {
	ID         string
	UserID     string
	SecretKind string
	CipherText string
	UpdatedAt  time.Time
}
