// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. The password hash is opaque to every layer
// except the user service that verifies credentials.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}
