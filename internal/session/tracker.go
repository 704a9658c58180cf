// File: internal/session/tracker.go
package session

import (
	"context"
	"sync"

	"servicehub_backend/internal/shared"

	"go.uber.org/zap"
)

// Resolver is the subset of the user service the tracker needs.
type Resolver interface {
	ResolveProfile(ctx context.Context, identity shared.Identity) (*shared.User, error)
}

// Tracker holds the current ResolvedSession for a long-lived connection and
// keeps it consistent across identity transitions. Profile resolution runs
// asynchronously; results are tagged with the identity id they were computed
// for and discarded if the identity changed in the meantime, so a slow fetch
// can never clobber a newer sign-in or a sign-out ("latest request wins").
//
// The HTTP middleware composes its session per request and never goes through
// a Tracker; this type serves long-lived callers (socket sessions, embedded
// clients) that hold one session across identity changes.
type Tracker struct {
	resolver Resolver
	logger   *zap.Logger

	mu              sync.Mutex
	identity        *shared.Identity
	identityLoaded  bool
	profile         *shared.User
	profileResolved bool
}

// NewTracker creates a Tracker. The session starts in the loading state until
// the first SetIdentity or SignOut call reports provider state.
func NewTracker(resolver Resolver, logger *zap.Logger) *Tracker {
	return &Tracker{
		resolver: resolver,
		logger:   logger.Named("SessionTracker"),
	}
}

// SetIdentity records a new signed-in identity and starts exactly one profile
// resolution for it. Passing nil is equivalent to SignOut.
func (t *Tracker) SetIdentity(ctx context.Context, identity *shared.Identity) {
	if identity == nil {
		t.SignOut()
		return
	}

	t.mu.Lock()
	t.identity = identity
	t.identityLoaded = true
	t.profile = nil
	t.profileResolved = false
	id := identity.ID
	t.mu.Unlock()

	go t.resolve(ctx, *identity, id)
}

func (t *Tracker) resolve(ctx context.Context, identity shared.Identity, forID string) {
	profile, err := t.resolver.ResolveProfile(ctx, identity)
	if err != nil {
		t.logger.Warn("Profile resolution failed", zap.Error(err), zap.String("identityID", forID))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Discard stale results: the identity may have changed (or signed out)
	// while this resolution was in flight.
	if t.identity == nil || t.identity.ID != forID {
		t.logger.Debug("Discarding stale profile resolution", zap.String("identityID", forID))
		return
	}
	t.profile = profile
	t.profileResolved = true
}

// SignOut clears all session state synchronously. Any in-flight resolution
// for the previous identity becomes stale and its result is dropped.
func (t *Tracker) SignOut() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.identity = nil
	t.identityLoaded = true
	t.profile = nil
	t.profileResolved = false
}

// Current returns the ResolvedSession derived from the tracker's state.
func (t *Tracker) Current() ResolvedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Compose(t.identity, t.identityLoaded, t.profile, t.profileResolved)
}
