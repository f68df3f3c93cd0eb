package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const fileColumns = `id, user_id, name, parent_id, is_folder, storage_key, size, created_at, updated_at`

func scanFile(row interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.ParentID, &f.IsFolder, &f.StorageKey, &f.Size, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) ListByParent(ctx context.Context, userID string, parentID *string) ([]*File, error) {

	var rows *sql.Rows
	var err error

	if parentID == nil {
		query := `SELECT ` + fileColumns + ` FROM files
		 WHERE user_id = $1 AND parent_id IS NULL
		 ORDER BY is_folder DESC, name`
		rows, err = r.db.QueryContext(ctx, query, userID)
	} else {
		query := `SELECT ` + fileColumns + ` FROM files
		 WHERE user_id = $1 AND parent_id = $2
		 ORDER BY is_folder DESC, name`
		rows, err = r.db.QueryContext(ctx, query, userID, *parentID)
	}

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := []*File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, fileID string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE id = $1 AND user_id = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, fileID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *File) (*File, error) {
	query :=
		`INSERT INTO files (user_id, name, parent_id, is_folder, storage_key, size)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, file.ParentID, file.IsFolder, file.StorageKey, file.Size).
		Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return file, nil
}

// Delete removes the file row and, for folders, its direct children in one
// transaction so a half-deleted folder is never observable.
func (r *PostgresRepository) Delete(ctx context.Context, userID, fileID string) error {

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		_, err := tx.ExecContext(ctx,
			`DELETE FROM files WHERE parent_id = $1 AND user_id = $2`, fileID, userID)
		if err != nil {
			return fmt.Errorf("error deleting children: %v", err)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM files WHERE id = $1 AND user_id = $2`, fileID, userID)
		if err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("error checking affected rows: %v", err)
		}
		if affected == 0 {
			return common.ErrorNotFound
		}

		return nil
	})
}
