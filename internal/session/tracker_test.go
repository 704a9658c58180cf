package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gateResolver blocks each ResolveProfile call until released, so tests can
// control the ordering of in-flight resolutions.
type gateResolver struct {
	mu       sync.Mutex
	profiles map[string]*shared.User
	gates    map[string]chan struct{}
}

func newGateResolver() *gateResolver {
	return &gateResolver{
		profiles: make(map[string]*shared.User),
		gates:    make(map[string]chan struct{}),
	}
}

func (r *gateResolver) add(id string, profile *shared.User) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate := make(chan struct{})
	r.profiles[id] = profile
	r.gates[id] = gate
	return gate
}

func (r *gateResolver) ResolveProfile(ctx context.Context, identity shared.Identity) (*shared.User, error) {
	r.mu.Lock()
	gate := r.gates[identity.ID]
	profile := r.profiles[identity.ID]
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return profile, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestTracker_InitialStateIsLoading(t *testing.T) {
	tracker := NewTracker(newGateResolver(), zap.NewNop())

	sess := tracker.Current()

	assert.True(t, sess.IsLoading)
	assert.False(t, sess.IsAuthenticated)
}

func TestTracker_SetIdentityResolvesProfile(t *testing.T) {
	resolver := newGateResolver()
	gate := resolver.add("uid-1", &shared.User{ID: "uid-1", Role: common.RoleAdmin})
	tracker := NewTracker(resolver, zap.NewNop())

	tracker.SetIdentity(context.Background(), &shared.Identity{ID: "uid-1"})

	// Loading until the resolution lands.
	sess := tracker.Current()
	require.True(t, sess.IsLoading)
	require.True(t, sess.IsAuthenticated)

	close(gate)
	waitFor(t, func() bool { return !tracker.Current().IsLoading })

	sess = tracker.Current()
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, common.RoleAdmin, sess.Role)
	assert.NotNil(t, sess.User)
}

func TestTracker_SignOutIsSynchronous(t *testing.T) {
	resolver := newGateResolver()
	gate := resolver.add("uid-1", &shared.User{ID: "uid-1", Role: common.RoleAdmin})
	tracker := NewTracker(resolver, zap.NewNop())

	tracker.SetIdentity(context.Background(), &shared.Identity{ID: "uid-1"})
	tracker.SignOut()

	// Immediately after SignOut the session must read signed out; no waiting.
	sess := tracker.Current()
	assert.False(t, sess.IsAuthenticated)
	assert.False(t, sess.IsLoading)
	assert.True(t, sess.IsCustomer)

	close(gate)
}

func TestTracker_StaleResolutionIsDiscarded(t *testing.T) {
	resolver := newGateResolver()
	slowGate := resolver.add("uid-old", &shared.User{ID: "uid-old", Role: common.RoleAdmin})
	fastGate := resolver.add("uid-new", &shared.User{ID: "uid-new", Role: common.RoleCustomer})
	close(fastGate)
	tracker := NewTracker(resolver, zap.NewNop())

	// Start a resolution for the old identity, then switch before it lands.
	tracker.SetIdentity(context.Background(), &shared.Identity{ID: "uid-old"})
	tracker.SetIdentity(context.Background(), &shared.Identity{ID: "uid-new"})

	waitFor(t, func() bool { return !tracker.Current().IsLoading })

	// Now let the old resolution finish; its admin profile must not clobber
	// the new identity's session.
	close(slowGate)
	time.Sleep(50 * time.Millisecond)

	sess := tracker.Current()
	assert.Equal(t, common.RoleCustomer, sess.Role)
	assert.False(t, sess.IsAdmin)
	require.NotNil(t, sess.User)
	assert.Equal(t, "uid-new", sess.User.ID)
}

func TestTracker_ResolutionAfterSignOutIsDropped(t *testing.T) {
	resolver := newGateResolver()
	gate := resolver.add("uid-1", &shared.User{ID: "uid-1", Role: common.RoleAdmin})
	tracker := NewTracker(resolver, zap.NewNop())

	tracker.SetIdentity(context.Background(), &shared.Identity{ID: "uid-1"})
	tracker.SignOut()
	close(gate)
	time.Sleep(50 * time.Millisecond)

	sess := tracker.Current()
	assert.False(t, sess.IsAuthenticated)
	assert.Nil(t, sess.User)
}

func TestTracker_NilIdentityActsAsSignOut(t *testing.T) {
	tracker := NewTracker(newGateResolver(), zap.NewNop())

	tracker.SetIdentity(context.Background(), nil)

	sess := tracker.Current()
	assert.False(t, sess.IsAuthenticated)
	assert.False(t, sess.IsLoading)
}
