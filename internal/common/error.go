// Package common defines shared constants and sentinel errors used across
// client and server layers of CloudDrive. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorUnauthorized    = errors.New("unauthorized")

	// Auth errors (invalid or malformed token, bad login/password).
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("incorrect credentials")

	// Sharing and deletion errors.
	ErrNotOwner           = errors.New("not the file owner")
	ErrNoAccessToRevoke   = errors.New("no permission to revoke")
	ErrInvalidAccessLevel = errors.New("invalid access level")
	ErrShareWithOwner     = errors.New("cannot share a file with its owner")

	// Blob store errors. Wrapped around the underlying cause.
	ErrStorage = errors.New("storage failure")
)
