// File: internal/session/session.go
package session

import (
	"servicehub_backend/internal/common"
	"servicehub_backend/internal/shared"
)

// ResolvedSession is the derived, transient view that combines the external
// identity with the application profile. It is recomputed whenever either
// side changes and is never persisted.
type ResolvedSession struct {
	User            *shared.User `json:"user,omitempty"`
	Role            string       `json:"role"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsAdmin         bool         `json:"is_admin"`
	IsProvider      bool         `json:"is_provider"`
	IsCustomer      bool         `json:"is_customer"`
	IsLoading       bool         `json:"is_loading"`
}

// Compose derives a ResolvedSession from the identity-provider state and the
// profile-store state.
//
// Loading tracks BOTH the provider's loaded flag and the profile fetch: a
// signed-in identity whose profile has not resolved yet is still loading, so
// guards hold off on redirect decisions instead of acting on the default
// role. A signed-out session (nil identity) is never loading once the
// provider has reported.
func Compose(identity *shared.Identity, identityLoaded bool, profile *shared.User, profileResolved bool) ResolvedSession {
	sess := ResolvedSession{
		Role:      common.RoleCustomer,
		IsLoading: !identityLoaded,
	}
	if identity == nil {
		sess.IsCustomer = true
		return sess
	}

	sess.IsAuthenticated = true
	if !profileResolved {
		sess.IsLoading = true
	}
	if profile != nil {
		sess.User = profile
		sess.Role = common.NormalizeRole(profile.Role)
	}

	sess.IsAdmin = sess.Role == common.RoleAdmin
	sess.IsProvider = sess.Role == common.RoleProvider
	sess.IsCustomer = sess.Role == common.RoleCustomer
	return sess
}
