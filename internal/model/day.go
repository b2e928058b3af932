package model

import "time"

// Day is the per-user aggregation root keyed by calendar date. One row
// exists per (user, date) pair; it is created lazily on the first entry
// of that date and never deleted.
type Day struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	UserID    string
	Date      string // YYYY-MM-DD
}

// Entry is an immutable raw-text snapshot of one journal submission. It
// exists as the audit/source record for the cards generated from it.
type Entry struct {
	CreatedAt time.Time
	ID        string
	DayID     string
	RawText   string
}
