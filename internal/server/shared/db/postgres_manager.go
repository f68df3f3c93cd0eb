package db

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkarlovs/cloudvault/internal/server/files"
	"github.com/dkarlovs/cloudvault/internal/server/migrations"
	"github.com/dkarlovs/cloudvault/internal/server/passwords"
	"github.com/dkarlovs/cloudvault/internal/server/refreshtokens"
	"github.com/dkarlovs/cloudvault/internal/server/users"
	"github.com/dkarlovs/cloudvault/internal/server/vaultcreds"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db *sql.DB) (users.Repository, error) {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db *sql.DB) (refreshtokens.Repository, error) {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) VaultCredentials(db *sql.DB) (vaultcreds.Repository, error) {
	return vaultcreds.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Passwords(db *sql.DB) (passwords.Repository, error) {
	return passwords.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Files(db *sql.DB) (files.Repository, error) {
	return files.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations points goose at the embedded migrations and applies them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
