package models

// Permission grants a non-owner user access to a file at a given level.
// At most one row exists per (file, user) pair; re-sharing updates the level
// in place. The owner's access is implicit and never stored as a row.
type Permission struct {
	ID          string
	FileID      string
	UserID      string
	AccessLevel AccessLevel
}
