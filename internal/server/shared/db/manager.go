// Package db wires repository constructors and schema migrations for a
// concrete database backend.
package db

import (
	"context"
	"database/sql"

	"github.com/dkarlovs/cloudvault/internal/server/files"
	"github.com/dkarlovs/cloudvault/internal/server/passwords"
	"github.com/dkarlovs/cloudvault/internal/server/refreshtokens"
	"github.com/dkarlovs/cloudvault/internal/server/users"
	"github.com/dkarlovs/cloudvault/internal/server/vaultcreds"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db *sql.DB) (users.Repository, error)
	RefreshTokens(db *sql.DB) (refreshtokens.Repository, error)
	VaultCredentials(db *sql.DB) (vaultcreds.Repository, error)
	Passwords(db *sql.DB) (passwords.Repository, error)
	Files(db *sql.DB) (files.Repository, error)
}
