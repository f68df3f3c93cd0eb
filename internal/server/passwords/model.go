package passwords

import "time"

// Item is one stored dashboard password, always scoped to its owner.
type Item struct {
	ID        string
	UserID    string
	Label     string
	Password  string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
