package digest

import "errors"

// Sentinel errors for the digest service layer.
var (
	// ErrUserNotFound means an email lookup matched no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail means an email lookup matched more than one user.
	// The membership store enforces unique emails, so this indicates
	// corrupted upstream data and is never resolved to an arbitrary match.
	ErrDuplicateEmail = errors.New("multiple users found with the same email")
)
