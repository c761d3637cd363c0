package service

import (
	"context"
	"sync"
	"testing"
	"time"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/mocks"
	mockauth "github.com/adadev/review-ui-api/internal/mocks/auth"
	"github.com/adadev/review-ui-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type lifecycleFixture struct {
	provider *mockauth.MockIdentityProvider
	tokens   *mockauth.MemoryTokenStore
	host     *mockauth.StubRepositoryHost
	sessions *session.Store
	life     *Lifecycle
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	provider := mockauth.NewMockIdentityProvider()
	tokens := mockauth.NewMemoryTokenStore()
	host := mockauth.NewStubRepositoryHost("octocat")
	host.GrantMembership(testVolunteerTeam, domainauth.MembershipRoleMember, domainauth.MembershipStateActive)
	sessions := session.NewStore()

	life := NewLifecycle(LifecycleOptions{
		Provider: provider,
		Tokens:   tokens,
		Host:     host,
		Roles:    newTestResolver(host),
		Sessions: sessions,
	})
	return &lifecycleFixture{provider: provider, tokens: tokens, host: host, sessions: sessions, life: life}
}

func TestLifecycle_StartsInitializing(t *testing.T) {
	f := newLifecycleFixture(t)

	assert.Equal(t, domainauth.PhaseInitializing, f.life.Phase())
	assert.True(t, f.life.CurrentSession().IsLoading)
}

func TestLifecycle_SignIn_HappyPath(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	result, err := f.life.SignIn(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)

	sess := result.Session
	assert.False(t, sess.IsLoading)
	require.NotNil(t, sess.User)
	assert.Equal(t, "mock-user-1", sess.User.ID)
	assert.Equal(t, "octocat", sess.Username)
	assert.Equal(t, "mock-access-token", sess.AccessToken)
	assert.Equal(t, domainauth.RoleVolunteer, sess.Role)
	assert.Equal(t, domainauth.PhaseAuthenticated, f.life.Phase())

	// The token must be persisted for the next process start.
	stored, ok := f.tokens.Stored()
	assert.True(t, ok)
	assert.Equal(t, "mock-access-token", stored)
}

func TestLifecycle_SignIn_HandoffFailureLeavesSignedOut(t *testing.T) {
	f := newLifecycleFixture(t)
	f.provider.HandoffFunc = func(context.Context) (domainauth.Identity, domainauth.Credentials, error) {
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Handoff("user closed the consent screen")
	}

	result, err := f.life.SignIn(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsHandoff(err))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	sess := f.life.CurrentSession()
	assert.False(t, sess.IsLoading)
	assert.False(t, sess.SignedIn())

	// Nothing may be persisted on a failed handoff.
	_, ok := f.tokens.Stored()
	assert.False(t, ok)
}

func TestLifecycle_SignIn_RoleResolutionFailureLeavesSignedOut(t *testing.T) {
	f := newLifecycleFixture(t)
	f.host.MembershipErrs[testInstructorTeam] = apperrors.Hostf("membership lookup: %d %s", 500, "Internal Server Error")

	result, err := f.life.SignIn(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsHost(err))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
	_, ok := f.tokens.Stored()
	assert.False(t, ok)
}

func TestLifecycle_SignIn_FailureKeepsPriorSession(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.life.SignIn(ctx)
	require.NoError(t, err)

	// Second sign-in attempt fails at the handoff; the existing session
	// must survive untouched.
	f.provider.HandoffFunc = func(context.Context) (domainauth.Identity, domainauth.Credentials, error) {
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Handoff("popup blocked")
	}
	_, err = f.life.SignIn(ctx)
	require.Error(t, err)

	assert.Equal(t, domainauth.PhaseAuthenticated, f.life.Phase())
	sess := f.life.CurrentSession()
	assert.True(t, sess.SignedIn())
	assert.Equal(t, "octocat", sess.Username)
}

func TestLifecycle_SignIn_RejectsConcurrentAttempts(t *testing.T) {
	f := newLifecycleFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	f.provider.HandoffFunc = func(ctx context.Context) (domainauth.Identity, domainauth.Credentials, error) {
		close(started)
		<-release
		return f.provider.Identity, domainauth.Credentials{AccessToken: "tok"}, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.life.SignIn(context.Background())
	}()

	<-started
	_, err := f.life.SignIn(context.Background())
	assert.ErrorIs(t, err, ErrAuthInProgress)

	close(release)
	wg.Wait()
}

func TestLifecycle_SignOut_ClearsEverything(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	_, err := f.life.SignIn(ctx)
	require.NoError(t, err)

	require.NoError(t, f.life.SignOut(ctx))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
	_, ok := f.tokens.Stored()
	assert.False(t, ok)
	assert.Equal(t, 1, f.provider.EndSessionCalls())
}

func TestLifecycle_SignOut_IdempotentAndCollectsErrors(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	require.NoError(t, f.life.SignOut(ctx))
	require.NoError(t, f.life.SignOut(ctx))
	assert.Equal(t, 2, f.tokens.RemoveCalls())

	// Backend failures are reported but the local state is still cleared.
	f.tokens.RemoveErr = apperrors.Transport("redis gone")
	_, err := f.life.SignIn(ctx)
	require.NoError(t, err)

	err = f.life.SignOut(ctx)
	require.Error(t, err)
	assert.False(t, f.life.CurrentSession().SignedIn())
	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
}

func TestLifecycle_SignOut_DiscardsInFlightResolution(t *testing.T) {
	f := newLifecycleFixture(t)

	// Hold the resolution open in the membership lookups so sign-out can
	// land while the sign-in is still resolving.
	f.host.Delays[testVolunteerTeam] = 150 * time.Millisecond
	f.host.Delays[testInstructorTeam] = 150 * time.Millisecond

	errCh := make(chan error, 1)
	go func() {
		_, err := f.life.SignIn(context.Background())
		errCh <- err
	}()

	// Wait until the resolution has started, then sign out underneath it.
	require.Eventually(t, func() bool {
		return len(f.host.MembershipCalls()) > 0
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, f.life.SignOut(context.Background()))

	err := <-errCh
	assert.ErrorIs(t, err, ErrResolutionSuperseded)

	// The stale result must not resurrect the session or the token.
	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
	_, ok := f.tokens.Stored()
	assert.False(t, ok)
}

func TestLifecycle_SignOut_DuringHandoffDoesNotLeaveLoading(t *testing.T) {
	f := newLifecycleFixture(t)

	// Hold the handoff open, as if the user were sitting at the consent
	// screen, so sign-out can land before the handoff completes.
	entered := make(chan struct{})
	release := make(chan struct{})
	f.provider.HandoffFunc = func(context.Context) (domainauth.Identity, domainauth.Credentials, error) {
		close(entered)
		<-release
		return domainauth.Identity{ID: "mock-user-1"}, domainauth.Credentials{AccessToken: "late-token"}, nil
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := f.life.SignIn(context.Background())
		errCh <- err
	}()

	<-entered
	require.NoError(t, f.life.SignOut(context.Background()))
	close(release)

	err := <-errCh
	assert.ErrorIs(t, err, ErrResolutionSuperseded)

	// The late handoff must not flip the signed-out session back to
	// loading, and nothing from the dead attempt may be applied.
	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	sess := f.life.CurrentSession()
	assert.False(t, sess.IsLoading)
	assert.False(t, sess.SignedIn())
	_, ok := f.tokens.Stored()
	assert.False(t, ok)
	assert.Empty(t, f.host.MembershipCalls())
}

func TestLifecycle_SignIn_TokenPersistFailureLeavesSignedOut(t *testing.T) {
	f := newLifecycleFixture(t)
	f.tokens.SetErr = apperrors.Transport("redis gone")

	result, err := f.life.SignIn(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsTransport(err))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
}

func TestLifecycle_Rehydrate_RestoresSessionLikeSignIn(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	// Simulate a previous run: provider remembers the identity and the
	// token survives in the store.
	f.provider.SignedIn = true
	f.tokens.Seed("persisted-token")

	require.NoError(t, f.life.Rehydrate(ctx))

	sess := f.life.CurrentSession()
	assert.Equal(t, domainauth.PhaseAuthenticated, f.life.Phase())
	assert.True(t, sess.SignedIn())
	assert.Equal(t, "octocat", sess.Username)
	assert.Equal(t, "persisted-token", sess.AccessToken)
	assert.Equal(t, domainauth.RoleVolunteer, sess.Role)

	// Rehydration reuses the persisted token rather than re-persisting it.
	assert.Zero(t, f.tokens.SetCalls())
	assert.Zero(t, f.provider.HandoffCalls())
}

func TestLifecycle_Rehydrate_NoIdentityRestsSignedOut(t *testing.T) {
	f := newLifecycleFixture(t)
	f.tokens.Seed("orphaned-token")

	require.NoError(t, f.life.Rehydrate(context.Background()))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
	// Without a provider identity the token must never reach the host.
	assert.Empty(t, f.host.MembershipCalls())
}

func TestLifecycle_Rehydrate_NoTokenRestsSignedOut(t *testing.T) {
	f := newLifecycleFixture(t)
	f.provider.SignedIn = true

	require.NoError(t, f.life.Rehydrate(context.Background()))

	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().SignedIn())
	assert.Empty(t, f.host.MembershipCalls())
}

func TestLifecycle_Rehydrate_RunsOnce(t *testing.T) {
	f := newLifecycleFixture(t)
	f.provider.SignedIn = true
	f.tokens.Seed("persisted-token")

	require.NoError(t, f.life.Rehydrate(context.Background()))
	callsAfterFirst := len(f.host.MembershipCalls())

	require.NoError(t, f.life.Rehydrate(context.Background()))
	assert.Equal(t, callsAfterFirst, len(f.host.MembershipCalls()))
}

func TestLifecycle_Rehydrate_ProviderErrorSurfaces(t *testing.T) {
	f := newLifecycleFixture(t)
	f.provider.AuthStateFunc = func(context.Context) (*domainauth.Identity, error) {
		return nil, apperrors.Transport("provider unreachable")
	}

	err := f.life.Rehydrate(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, domainauth.PhaseSignedOut, f.life.Phase())
	assert.False(t, f.life.CurrentSession().IsLoading)
}

func TestLifecycle_Rehydrate_UsernameLookupFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mockauth.NewMockIdentityProvider()
	provider.SignedIn = true
	tokens := mockauth.NewMemoryTokenStore()
	tokens.Seed("persisted-token")

	mockHost := mocks.NewMockRepositoryHost(ctrl)
	mockHost.EXPECT().
		CurrentUser(gomock.Any(), "persisted-token").
		Return("", apperrors.Hostf("current user: %d %s", 401, "Unauthorized"))

	sessions := session.NewStore()
	life := NewLifecycle(LifecycleOptions{
		Provider: provider,
		Tokens:   tokens,
		Host:     mockHost,
		Roles: mockauth.RoleResolverFunc(func(context.Context, string, string) (domainauth.Role, error) {
			t.Fatal("role resolution must not run when the username lookup fails")
			return "", nil
		}),
		Sessions: sessions,
	})

	err := life.Rehydrate(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsHost(err))
	assert.Equal(t, domainauth.PhaseSignedOut, life.Phase())
	assert.False(t, sessions.Current().SignedIn())
}

func TestLifecycle_SessionEventsObserveTheFlow(t *testing.T) {
	f := newLifecycleFixture(t)
	ch, cancel := f.sessions.Subscribe()
	defer cancel()
	<-ch // initial loading snapshot

	_, err := f.life.SignIn(context.Background())
	require.NoError(t, err)

	// The latest snapshot must be the signed-in session, regardless of how
	// many intermediate states were coalesced away.
	deadline := time.After(time.Second)
	for {
		select {
		case sess := <-ch:
			if sess.SignedIn() {
				assert.Equal(t, "octocat", sess.Username)
				return
			}
		case <-deadline:
			t.Fatal("never observed a signed-in snapshot")
		}
	}
}
