package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	"github.com/adadev/review-ui-api/internal/domain/model"
)

// IdentityProvider performs the OAuth handoff against an external IdP and
// reports the provider's own view of the current identity.
type IdentityProvider interface {
	// Handoff runs the interactive OAuth flow to completion and returns the
	// authenticated identity together with the issued bearer credentials.
	// It blocks until the flow finishes, fails, or ctx is done.
	Handoff(ctx context.Context) (domainauth.Identity, domainauth.Credentials, error)

	// AuthState reports the provider's current identity. A nil identity
	// means the provider considers the user signed out.
	AuthState(ctx context.Context) (*domainauth.Identity, error)

	// EndSession clears any provider-side session state after sign-out.
	EndSession(ctx context.Context) error
}

// TokenStore persists the single access token across process restarts.
// The well-known storage key is an implementation detail of the adapter.
type TokenStore interface {
	// Get returns the stored token. Absence is reported as an error
	// satisfying apperrors.IsNotFound, not as an empty string.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// RepositoryHost issues authenticated requests against the code-hosting API.
type RepositoryHost interface {
	// CurrentUser resolves the host login name for the bearer token.
	CurrentUser(ctx context.Context, accessToken string) (string, error)

	// TeamMembership looks up the username's membership in a team.
	// A 404 from the host surfaces as an error satisfying
	// apperrors.IsNotFound; callers decide whether absence is fatal.
	TeamMembership(ctx context.Context, teamID, username, accessToken string) (*domainauth.Membership, error)

	// SearchOpenPullRequests lists open pull requests across the given orgs.
	SearchOpenPullRequests(ctx context.Context, orgs []string, accessToken string) ([]model.PullRequest, error)
}

// RoleResolver maps (username, accessToken) to an authorization role.
type RoleResolver interface {
	Resolve(ctx context.Context, username, accessToken string) (domainauth.Role, error)
}
