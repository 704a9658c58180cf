// File: internal/guard/guard.go
package guard

import (
	"servicehub_backend/internal/common"
	"servicehub_backend/internal/session"
)

// Outcome is the result of a guard decision.
type Outcome int

const (
	// Allow renders the protected content.
	Allow Outcome = iota
	// Loading renders a neutral state; no redirect may happen yet because
	// the session has not finished resolving.
	Loading
	// Redirect sends the caller to Decision.RedirectTo.
	Redirect
)

// Denied carries the access-denied affordance shown alongside a role
// redirect, including a manual back-navigation target as a safety net when
// the redirect itself fails or loops.
type Denied struct {
	Message  string `json:"message"`
	BackPath string `json:"back_path"`
}

// Decision is the output of a guard evaluation.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	Denied     *Denied
}

// RoleSatisfies reports whether a session role meets a required capability.
// Admin satisfies both the admin and provider checks; provider satisfies only
// provider; the customer tier is met by any role.
func RoleSatisfies(role, required string) bool {
	role = common.NormalizeRole(role)
	switch common.NormalizeRole(required) {
	case common.RoleAdmin:
		return role == common.RoleAdmin
	case common.RoleProvider:
		return role == common.RoleProvider || role == common.RoleAdmin
	case common.RoleCustomer:
		return true
	}
	return false
}

// DecideAuth gates content on authentication alone. While the session is
// loading no redirect is issued, so legitimate users are not bounced to the
// login page before their identity resolves.
func DecideAuth(sess session.ResolvedSession, loginPath string) Decision {
	if sess.IsLoading {
		return Decision{Outcome: Loading}
	}
	if !sess.IsAuthenticated {
		return Decision{Outcome: Redirect, RedirectTo: loginPath}
	}
	return Decision{Outcome: Allow}
}

// DecideRole gates content on a required capability. Unauthenticated callers
// go to the login path; authenticated callers lacking the capability go to
// the fallback path instead, since sending an authenticated user to login
// would be wrong.
func DecideRole(sess session.ResolvedSession, required, loginPath, fallbackPath string) Decision {
	if sess.IsLoading {
		return Decision{Outcome: Loading}
	}
	if !sess.IsAuthenticated {
		return Decision{Outcome: Redirect, RedirectTo: loginPath}
	}
	if !RoleSatisfies(sess.Role, required) {
		return Decision{
			Outcome:    Redirect,
			RedirectTo: fallbackPath,
			Denied: &Denied{
				Message:  "Access denied: your account does not have the required role.",
				BackPath: fallbackPath,
			},
		}
	}
	return Decision{Outcome: Allow}
}
