package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	"github.com/adadev/review-ui-api/internal/domain/model"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.TokenStore       = (*MemoryTokenStore)(nil)
	_ ports.RepositoryHost   = (*StubRepositoryHost)(nil)
	_ ports.RoleResolver     = (RoleResolverFunc)(nil)
)

// MockIdentityProvider simulates an identity provider with deterministic
// identity and credentials. Per-method Func overrides take precedence.
type MockIdentityProvider struct {
	HandoffFunc    func(ctx context.Context) (domainauth.Identity, domainauth.Credentials, error)
	AuthStateFunc  func(ctx context.Context) (*domainauth.Identity, error)
	EndSessionFunc func(ctx context.Context) error

	// Deterministic values for predictable testing
	Identity    domainauth.Identity
	AccessToken string
	SignedIn    bool

	mu              sync.Mutex
	handoffCalls    int
	endSessionCalls int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
// The provider starts signed out; a successful Handoff flips it to signed in.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		Identity: domainauth.Identity{
			ID:          "mock-user-1",
			DisplayName: "Mock User",
		},
		AccessToken: "mock-access-token",
	}
}

func (m *MockIdentityProvider) Handoff(ctx context.Context) (domainauth.Identity, domainauth.Credentials, error) {
	m.mu.Lock()
	m.handoffCalls++
	m.mu.Unlock()
	if m.HandoffFunc != nil {
		return m.HandoffFunc(ctx)
	}
	m.mu.Lock()
	m.SignedIn = true
	m.mu.Unlock()
	return m.Identity, domainauth.Credentials{AccessToken: m.AccessToken}, nil
}

func (m *MockIdentityProvider) AuthState(ctx context.Context) (*domainauth.Identity, error) {
	if m.AuthStateFunc != nil {
		return m.AuthStateFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.SignedIn {
		return nil, nil
	}
	id := m.Identity
	return &id, nil
}

func (m *MockIdentityProvider) EndSession(ctx context.Context) error {
	m.mu.Lock()
	m.endSessionCalls++
	m.mu.Unlock()
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(ctx)
	}
	m.mu.Lock()
	m.SignedIn = false
	m.mu.Unlock()
	return nil
}

// HandoffCalls reports how many times Handoff was invoked.
func (m *MockIdentityProvider) HandoffCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handoffCalls
}

// EndSessionCalls reports how many times EndSession was invoked.
func (m *MockIdentityProvider) EndSessionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endSessionCalls
}

// MemoryTokenStore is an in-memory token store for unit tests. Absence is
// reported the same way the redis adapter reports it.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	has   bool

	GetErr    error
	SetErr    error
	RemoveErr error

	sets    int
	removes int
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Seed pre-populates the store, as if a token survived a restart.
func (m *MemoryTokenStore) Seed(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.has = true
}

func (m *MemoryTokenStore) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	if !m.has {
		return "", apperrors.NotFound("access token not found")
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.token = token
	m.has = true
	return nil
}

func (m *MemoryTokenStore) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.token = ""
	m.has = false
	return nil
}

// Stored reports the current token and whether one is present.
func (m *MemoryTokenStore) Stored() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.has
}

// SetCalls reports how many times Set was invoked.
func (m *MemoryTokenStore) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// RemoveCalls reports how many times Remove was invoked.
func (m *MemoryTokenStore) RemoveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removes
}

// StubRepositoryHost is a configurable repository-host double. Memberships
// are keyed by team ID; a missing key behaves like a host 404. Delays let
// tests observe that lookups run concurrently.
type StubRepositoryHost struct {
	Username    string
	UsernameErr error

	Memberships    map[string]*domainauth.Membership
	MembershipErrs map[string]error
	Delays         map[string]time.Duration

	PullRequests []model.PullRequest
	SearchErr    error

	mu              sync.Mutex
	membershipCalls []string
}

// NewStubRepositoryHost creates a host double with no memberships configured.
func NewStubRepositoryHost(username string) *StubRepositoryHost {
	return &StubRepositoryHost{
		Username:       username,
		Memberships:    make(map[string]*domainauth.Membership),
		MembershipErrs: make(map[string]error),
		Delays:         make(map[string]time.Duration),
	}
}

// GrantMembership marks username a member of teamID for subsequent lookups.
func (s *StubRepositoryHost) GrantMembership(teamID string, role domainauth.MembershipRole, state domainauth.MembershipState) {
	s.Memberships[teamID] = &domainauth.Membership{
		URL:   "https://host.test/teams/" + teamID + "/memberships/" + s.Username,
		Role:  role,
		State: state,
	}
}

func (s *StubRepositoryHost) CurrentUser(_ context.Context, _ string) (string, error) {
	if s.UsernameErr != nil {
		return "", s.UsernameErr
	}
	return s.Username, nil
}

func (s *StubRepositoryHost) TeamMembership(ctx context.Context, teamID, username, _ string) (*domainauth.Membership, error) {
	s.mu.Lock()
	s.membershipCalls = append(s.membershipCalls, teamID)
	s.mu.Unlock()

	if d := s.Delays[teamID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeTransport, "membership lookup canceled")
		}
	}
	if err, ok := s.MembershipErrs[teamID]; ok {
		return nil, err
	}
	m, ok := s.Memberships[teamID]
	if !ok || m == nil {
		return nil, apperrors.NotFoundf("no membership of %s for %s", teamID, username)
	}
	cp := *m
	return &cp, nil
}

func (s *StubRepositoryHost) SearchOpenPullRequests(_ context.Context, _ []string, _ string) ([]model.PullRequest, error) {
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	return s.PullRequests, nil
}

// MembershipCalls reports the team IDs looked up, in call order.
func (s *StubRepositoryHost) MembershipCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.membershipCalls))
	copy(out, s.membershipCalls)
	return out
}

// RoleResolverFunc adapts a function to the RoleResolver port.
type RoleResolverFunc func(ctx context.Context, username, accessToken string) (domainauth.Role, error)

func (f RoleResolverFunc) Resolve(ctx context.Context, username, accessToken string) (domainauth.Role, error) {
	return f(ctx, username, accessToken)
}
