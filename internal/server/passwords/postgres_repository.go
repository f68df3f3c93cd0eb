package passwords

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

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Item, error) {
	query :=
		`SELECT id, user_id, label, password, color, created_at, updated_at FROM passwords
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Label, &item.Password, &item.Color, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, itemID string) (*Item, error) {
	query :=
		`SELECT id, user_id, label, password, color, created_at, updated_at FROM passwords
		 WHERE id = $1 AND user_id = $2
		 `

	item := &Item{}
	err := r.db.QueryRowContext(ctx, query, itemID, userID).
		Scan(&item.ID, &item.UserID, &item.Label, &item.Password, &item.Color, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	query :=
		`INSERT INTO passwords (user_id, label, password, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, item.UserID, item.Label, item.Password, item.Color).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return item, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	query :=
		`UPDATE passwords
		 SET label = $1, password = $2, color = $3, updated_at = now()
		 WHERE id = $4 AND user_id = $5
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, item.Label, item.Password, item.Color, item.ID, item.UserID).
		Scan(&item.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, itemID string) error {
	query :=
		`DELETE FROM passwords
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, itemID, userID)
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
}
