package devauth

// Package devauth provides a simple, config-driven IdentityProvider for
// local development. It short-circuits the OAuth handoff and hands out a
// configured identity and static token.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	"github.com/adadev/review-ui-api/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID      string
	DisplayName string
	// AccessToken is the static bearer token returned by every handoff.
	AccessToken string
}

// Provider implements ports.IdentityProvider for local development.
// It starts signed in, so rehydration works against a previously stored
// token; EndSession flips it to signed out until the next handoff.
type Provider struct {
	mu          sync.Mutex
	identity    domainauth.Identity
	accessToken string
	signedIn    bool
}

// Ensure compile-time conformance to the port.
var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.AccessToken == "" {
		return nil, errors.New("dev auth: AccessToken is required")
	}
	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.UserID
	}
	return &Provider{
		identity: domainauth.Identity{
			ID:          cfg.UserID,
			DisplayName: displayName,
		},
		accessToken: cfg.AccessToken,
		signedIn:    true,
	}, nil
}

// Handoff returns the configured identity and credentials immediately.
func (p *Provider) Handoff(_ context.Context) (domainauth.Identity, domainauth.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = true
	return p.identity, domainauth.Credentials{AccessToken: p.accessToken}, nil
}

// AuthState reports the configured identity while signed in, nil after
// EndSession.
func (p *Provider) AuthState(_ context.Context) (*domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.signedIn {
		return nil, nil
	}
	identity := p.identity
	return &identity, nil
}

// EndSession marks the provider signed out.
func (p *Provider) EndSession(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = false
	return nil
}
