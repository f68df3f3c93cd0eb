package files

import (
	"context"
)

type Repository interface {
	ListByParent(ctx context.Context, userID string, parentID *string) ([]*File, error)
	GetByID(ctx context.Context, userID, fileID string) (*File, error)
	Create(ctx context.Context, file *File) (*File, error)
	Delete(ctx context.Context, userID, fileID string) error
}
