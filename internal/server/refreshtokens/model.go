package refreshtokens

import "time"

// RefreshToken is a stored row for a previously issued refresh token.
type RefreshToken struct {
	UserID  string
	Expires time.Time
}
