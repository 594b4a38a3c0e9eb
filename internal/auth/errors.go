package auth

import "errors"

var (
	// ErrUnauthenticated means no valid actor session was presented.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrRoleNotFound means the actor's role no longer resolves, e.g. it
	// was deleted or renamed after the session was issued.
	ErrRoleNotFound = errors.New("auth: role not found")
	// ErrForbidden means the role exists but lacks the exact permission.
	ErrForbidden = errors.New("auth: forbidden")
)
