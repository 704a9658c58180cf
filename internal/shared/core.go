// File: internal/shared/core.go
package shared

import (
	"context"
	"time"
)

// Identity is the read-only view of a signed-in user as reported by the
// external identity provider. It lives only for the duration of a session and
// is never persisted by this system.
type Identity struct {
	ID    string // opaque, stable provider uid
	Email string
	Name  string
	Phone string
}

// User represents an application-level user profile. Its ID equals the
// external identity id (foreign-key-by-value), so at most one profile exists
// per identity.
type User struct {
	ID         string
	Email      *string
	FullName   *string
	Name       *string // legacy duplicate of FullName, kept for old readers
	Phone      *string
	Role       string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Service defines the interface for user-related business logic.
type Service interface {
	// ResolveProfile ensures a profile row exists for the identity, creating
	// it lazily on first sight. Store failures other than not-found are
	// logged and reported as an absent profile (nil, nil) so callers degrade
	// instead of crashing.
	ResolveProfile(ctx context.Context, identity Identity) (*User, error)

	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]User, int64, error)
	UpdateUserRole(ctx context.Context, id string, role string) (*User, error)
}
