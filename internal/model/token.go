package model

import "time"

// GoogleToken holds a user's Google OAuth credentials. ExpiresAt is a
// Unix timestamp in seconds.
type GoogleToken struct {
	UpdatedAt    time.Time
	UserID       string
	AccessToken  string
	RefreshToken string
	Scopes       string
	ExpiresAt    int64
}

// Valid reports whether the access token is presently usable.
func (t *GoogleToken) Valid(now time.Time) bool {
	return t.AccessToken != "" && t.ExpiresAt > now.Unix()
}
