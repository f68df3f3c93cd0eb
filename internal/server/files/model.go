package files

import "time"

// File is one dashboard entry: a stored object or a folder.
// StorageKey is empty for folders; ParentID is nil at the dashboard root.
type File struct {
	ID         string
	UserID     string
	Name       string
	ParentID   *string
	IsFolder   bool
	StorageKey string
	Size       int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
