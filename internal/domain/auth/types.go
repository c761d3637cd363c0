package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "errors"

// Role represents the application's authorization role, derived from
// team membership on the repository host.
// Keep string form for easy persistence and JSON rendering.
type Role string

const (
	RoleInstructor   Role = "instructor"
	RoleVolunteer    Role = "volunteer"
	RoleUnauthorized Role = "unauthorized"
)

// Identity represents the authenticated principal returned by the identity
// provider. It is opaque beyond display purposes and immutable for the
// lifetime of a session.
type Identity struct {
	ID          string `json:"id"` // stable identifier from the provider (e.g., sub)
	DisplayName string `json:"display_name"`
}

// Credentials carries the bearer material issued by the OAuth handoff.
// The access token is the only secret the engine persists and is never parsed.
type Credentials struct {
	AccessToken string
}

// MembershipRole is the member's role within a team on the repository host.
type MembershipRole string

const (
	MembershipRoleMaintainer MembershipRole = "maintainer"
	MembershipRoleMember     MembershipRole = "member"
)

// MembershipState is the activation state of a team membership.
// Pending members still count as members for authorization purposes.
type MembershipState string

const (
	MembershipStateActive  MembershipState = "active"
	MembershipStatePending MembershipState = "pending"
)

// Membership is the record returned by a team-membership lookup.
// Absence of a membership is modeled as a nil *Membership, not an error.
type Membership struct {
	URL   string          `json:"url"`
	Role  MembershipRole  `json:"role"`
	State MembershipState `json:"state"`
}

// Session is the aggregate authentication state. Role, Username, and
// AccessToken are either all empty (signed out) or all populated (signed in);
// IsLoading is true only transiently during resolution or rehydration.
type Session struct {
	IsLoading   bool      `json:"is_loading"`
	User        *Identity `json:"user,omitempty"`
	Username    string    `json:"username,omitempty"`
	AccessToken string    `json:"-"`
	Role        Role      `json:"role,omitempty"`
}

// SignedIn reports whether the session represents an authenticated user.
func (s Session) SignedIn() bool { return s.AccessToken != "" }

// NewSignedInSession builds a fully populated signed-in session, enforcing
// the all-or-nothing invariant.
func NewSignedInSession(user Identity, username, accessToken string, role Role) (Session, error) {
	if user.ID == "" {
		return Session{}, errors.New("session: identity is required")
	}
	if username == "" {
		return Session{}, errors.New("session: username is required")
	}
	if accessToken == "" {
		return Session{}, errors.New("session: access token is required")
	}
	if role == "" {
		return Session{}, errors.New("session: role is required")
	}
	return Session{
		User:        &user,
		Username:    username,
		AccessToken: accessToken,
		Role:        role,
	}, nil
}

// Phase identifies where the overall authentication flow currently is.
// It tracks the lifecycle controller's state machine, not just Session fields.
type Phase string

const (
	// PhaseInitializing is the state before the identity provider has
	// reported anything. IsLoading is true.
	PhaseInitializing Phase = "initializing"
	// PhaseRehydrating means a persisted token and a provider identity
	// exist but role/username are still being resolved.
	PhaseRehydrating Phase = "rehydrating"
	// PhaseSignedOut means no valid session exists.
	PhaseSignedOut Phase = "signed_out"
	// PhaseAuthenticating means an explicit sign-in is in flight.
	PhaseAuthenticating Phase = "authenticating"
	// PhaseAuthenticated means the session is fully populated.
	PhaseAuthenticated Phase = "authenticated"
)
