package vaultcreds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*Credential, error) {
	query :=
		`SELECT id, user_id, secret_kind, cipher_text, updated_at FROM vault_credentials
		 WHERE user_id = $1
		 `

	cred := &Credential{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&cred.ID, &cred.UserID, &cred.SecretKind, &cred.CipherText, &cred.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return cred, nil
}

// Upsert writes the single credential row for cred.UserID: inserts when
// absent, overwrites unconditionally when present. Last writer wins.
func (r *PostgresRepository) Upsert(ctx context.Context, cred *Credential) error {
	query :=
		`INSERT INTO vault_credentials (user_id, secret_kind, cipher_text, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET secret_kind = EXCLUDED.secret_kind,
		               cipher_text = EXCLUDED.cipher_text,
		               updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, cred.UserID, cred.SecretKind, cred.CipherText)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
