package models

import "fmt"

// AccessLevel is a user's effective access to a file.
type AccessLevel string

const (
	AccessOwner AccessLevel = "owner"
	AccessWrite AccessLevel = "write"
	AccessRead  AccessLevel = "read"
	AccessNone  AccessLevel = "none"
)

func (l AccessLevel) String() string { return string(l) }

// CanRead reports whether the level allows listing a file and reading its
// content.
func (l AccessLevel) CanRead() bool { return l != AccessNone }

// CanWrite reports whether the level allows overwriting content or metadata.
func (l AccessLevel) CanWrite() bool { return l == AccessOwner || l == AccessWrite }

// ParseShareLevel validates a client-supplied share level. Only "read" and
// "write" are grantable; "owner" and "none" are computed, never stored.
func ParseShareLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case AccessRead:
		return AccessRead, nil
	case AccessWrite:
		return AccessWrite, nil
	default:
		return "", fmt.Errorf("%q is not a grantable access level", s)
	}
}
