package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
	"github.com/adadev/review-ui-api/internal/session"
)

// ErrAuthInProgress is returned when a sign-in is requested while another
// sign-in or the rehydration flow already owns the resolution.
var ErrAuthInProgress = errors.New("authentication already in progress")

// ErrResolutionSuperseded is returned when a resolution settled after
// sign-out invalidated it; its result was discarded, not applied.
var ErrResolutionSuperseded = errors.New("resolution superseded by sign-out")

// LifecycleOptions groups dependencies for Lifecycle.
type LifecycleOptions struct {
	Provider ports.IdentityProvider
	Tokens   ports.TokenStore
	Host     ports.RepositoryHost
	Roles    ports.RoleResolver
	Sessions *session.Store
	Logger   *slog.Logger
}

// Lifecycle orchestrates the end-to-end sign-in flow, the sign-out flow, and
// the startup rehydration flow. It is the only writer of the session store.
//
// Every resolution runs under an attempt ID. The ID is issued when a flow
// begins and cleared when it settles; sign-out clears it eagerly, so a
// resolution that settles afterwards finds its ID stale and is discarded
// instead of being written to the session store.
type Lifecycle struct {
	provider ports.IdentityProvider
	tokens   ports.TokenStore
	host     ports.RepositoryHost
	roles    ports.RoleResolver
	sessions *session.Store
	logger   *slog.Logger

	mu         sync.Mutex
	phase      domainauth.Phase
	attempt    uuid.UUID // uuid.Nil when no resolution is in flight
	rehydrated bool
}

// NewLifecycle constructs a Lifecycle in the Initializing phase.
func NewLifecycle(opts LifecycleOptions) *Lifecycle {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{
		provider: opts.Provider,
		tokens:   opts.Tokens,
		host:     opts.Host,
		roles:    opts.Roles,
		sessions: opts.Sessions,
		logger:   logger,
		phase:    domainauth.PhaseInitializing,
	}
}

// Phase reports where the authentication flow currently is.
func (l *Lifecycle) Phase() domainauth.Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// CurrentSession returns a snapshot of the session.
func (l *Lifecycle) CurrentSession() domainauth.Session {
	return l.sessions.Current()
}

// Rehydrate re-establishes a signed-in session at process start from the
// persisted token, without repeating the OAuth handoff. It runs at most once
// per process; later calls, and a call racing an explicit sign-in that began
// first, are no-ops.
func (l *Lifecycle) Rehydrate(ctx context.Context) error {
	l.mu.Lock()
	if l.rehydrated {
		l.mu.Unlock()
		return nil
	}
	l.rehydrated = true
	if l.attempt != uuid.Nil {
		// An explicit sign-in already owns the resolution window.
		l.mu.Unlock()
		return nil
	}
	attempt := uuid.New()
	l.attempt = attempt
	l.phase = domainauth.PhaseRehydrating
	l.mu.Unlock()

	if !l.startLoad(attempt) {
		return nil
	}

	identity, err := l.provider.AuthState(ctx)
	if err != nil {
		l.settleAttempt(attempt, domainauth.Session{})
		return fmt.Errorf("query provider auth state: %w", err)
	}

	var token string
	if identity != nil {
		token, err = l.tokens.Get(ctx)
		if err != nil && !apperrors.IsNotFound(err) {
			l.settleAttempt(attempt, domainauth.Session{})
			return fmt.Errorf("read stored token: %w", err)
		}
	}

	if identity == nil || token == "" {
		// Nothing to rehydrate: rest in the signed-out state without
		// attempting role resolution.
		l.settleAttempt(attempt, domainauth.Session{})
		return nil
	}

	if _, err := l.completeSignIn(ctx, attempt, *identity, token, domainauth.Session{}, false); err != nil {
		return fmt.Errorf("rehydrate session: %w", err)
	}
	l.logger.InfoContext(ctx, "session rehydrated", "user_id", identity.ID)
	return nil
}

// SignInResult contains the result of a completed sign-in.
type SignInResult struct {
	Session domainauth.Session
}

// SignIn runs the explicit sign-in flow: OAuth handoff, identity fetch, role
// resolution, token persistence, session mutation. Any failure leaves the
// session at its prior resting state and is reported to the caller.
func (l *Lifecycle) SignIn(ctx context.Context) (*SignInResult, error) {
	l.mu.Lock()
	if l.attempt != uuid.Nil {
		l.mu.Unlock()
		return nil, ErrAuthInProgress
	}
	attempt := uuid.New()
	l.attempt = attempt
	l.phase = domainauth.PhaseAuthenticating
	prior := l.sessions.Current()
	l.mu.Unlock()

	identity, creds, err := l.provider.Handoff(ctx)
	if err != nil {
		l.settleAttempt(attempt, prior)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeHandoff, "oauth handoff")
	}

	if !l.startLoad(attempt) {
		// Sign-out landed while the user was at the consent screen; the
		// completed handoff belongs to a dead attempt.
		return nil, ErrResolutionSuperseded
	}
	result, err := l.completeSignIn(ctx, attempt, identity, creds.AccessToken, prior, true)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return result, nil
}

// SignOut removes the persisted token, resets the session store, and tells
// the identity provider to clear its own state. Safe to call from any state;
// an in-flight resolution is invalidated so its eventual result is discarded.
func (l *Lifecycle) SignOut(ctx context.Context) error {
	l.mu.Lock()
	if l.attempt != uuid.Nil {
		l.logger.DebugContext(ctx, "sign-out invalidated in-flight resolution", "attempt", l.attempt)
	}
	l.attempt = uuid.Nil
	l.phase = domainauth.PhaseSignedOut
	l.sessions.SignOut()
	l.mu.Unlock()

	var errs []error
	if err := l.tokens.Remove(ctx); err != nil {
		errs = append(errs, fmt.Errorf("remove stored token: %w", err))
	}
	if err := l.provider.EndSession(ctx); err != nil {
		errs = append(errs, fmt.Errorf("end provider session: %w", err))
	}
	return errors.Join(errs...)
}

// completeSignIn is the shared continuation of sign-in and rehydration:
// resolve the host username, resolve the role, optionally persist the token,
// then commit. The commit is dropped if the attempt was superseded.
func (l *Lifecycle) completeSignIn(
	ctx context.Context,
	attempt uuid.UUID,
	identity domainauth.Identity,
	accessToken string,
	prior domainauth.Session,
	persistToken bool,
) (*SignInResult, error) {
	username, err := l.host.CurrentUser(ctx, accessToken)
	if err != nil {
		l.settleAttempt(attempt, prior)
		return nil, fmt.Errorf("resolve username: %w", err)
	}

	role, err := l.roles.Resolve(ctx, username, accessToken)
	if err != nil {
		l.settleAttempt(attempt, prior)
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempt != attempt {
		l.logger.WarnContext(ctx, "discarding stale resolution result", "username", username)
		return nil, ErrResolutionSuperseded
	}
	l.attempt = uuid.Nil
	if persistToken {
		// Persist under the lock so a concurrent sign-out cannot slip in
		// between the staleness check and the write.
		if err := l.tokens.Set(ctx, accessToken); err != nil {
			l.restoreLocked(prior)
			return nil, fmt.Errorf("persist token: %w", err)
		}
	}
	if err := l.sessions.SignIn(identity, username, accessToken, role); err != nil {
		l.restoreLocked(prior)
		return nil, fmt.Errorf("store session: %w", err)
	}
	l.phase = domainauth.PhaseAuthenticated
	return &SignInResult{Session: l.sessions.Current()}, nil
}

// startLoad flips the session store into its loading state, unless the
// attempt has already been invalidated by a concurrent sign-out. It reports
// whether the attempt still owns the resolution. Mutating the store under
// l.mu keeps the loading flag from being applied on behalf of a dead attempt.
func (l *Lifecycle) startLoad(attempt uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempt != attempt {
		return false
	}
	l.sessions.StartLoad()
	return true
}

// settleAttempt ends an attempt without a new sign-in: the session returns
// to its prior resting state and the loading flag is cleared. A superseded
// attempt is left alone, since sign-out already settled the state.
func (l *Lifecycle) settleAttempt(attempt uuid.UUID, prior domainauth.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempt != attempt {
		return
	}
	l.attempt = uuid.Nil
	l.restoreLocked(prior)
}

// restoreLocked returns the session to its prior resting state. Callers must
// hold l.mu. A failed re-sign-in keeps the previous session untouched.
func (l *Lifecycle) restoreLocked(prior domainauth.Session) {
	if prior.SignedIn() {
		l.phase = domainauth.PhaseAuthenticated
		_ = l.sessions.SignIn(*prior.User, prior.Username, prior.AccessToken, prior.Role)
		return
	}
	l.phase = domainauth.PhaseSignedOut
	l.sessions.SignOut()
}
