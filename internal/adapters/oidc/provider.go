package oidc

// Package oidc implements the identity-provider port over OIDC/OAuth2.
// The interactive handoff is a rendezvous: Handoff publishes the provider
// auth URL and blocks until the HTTP layer delivers the callback code, then
// exchanges it and verifies the resulting id_token.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
)

// IdentityCache persists the provider's view of the signed-in identity so it
// survives process restarts, the way browser IdP SDKs keep their own state.
// Load returns (nil, nil) when the provider considers the user signed out.
type IdentityCache interface {
	Load(ctx context.Context) (*domainauth.Identity, error)
	Save(ctx context.Context, identity domainauth.Identity) error
	Clear(ctx context.Context) error
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string

	// HandoffTimeout bounds how long Handoff waits for the callback.
	// Defaults to 5 minutes.
	HandoffTimeout time.Duration

	// OnAuthURL publishes the URL the user must visit to continue the
	// handoff. Required: without it the flow can never complete.
	OnAuthURL func(authURL string)

	// IdentityCache persists the authenticated identity for AuthState.
	// Optional; without it, rehydration never sees a provider identity.
	IdentityCache IdentityCache

	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider using OIDC/OAuth2.
type Provider struct {
	config         *oauth2.Config
	handoffTimeout time.Duration
	onAuthURL      func(string)
	cache          IdentityCache
	httpClient     *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier

	pending chan pendingHandoff // capacity 1: at most one handoff at a time
}

// pendingHandoff is the rendezvous between Handoff and the HTTP callback.
type pendingHandoff struct {
	state  string
	result chan callbackResult
}

type callbackResult struct {
	code string
	err  error
}

// Ensure compile-time conformance to the port.
var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider creates a new OIDC provider. Discovery runs once, up front.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if config.OnAuthURL == nil {
		return nil, errors.New("OnAuthURL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	timeout := config.HandoffTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	p := &Provider{
		handoffTimeout: timeout,
		onAuthURL:      config.OnAuthURL,
		cache:          config.IdentityCache,
		httpClient:     httpClient,
		pending:        make(chan pendingHandoff, 1),
	}

	// Initialize go-oidc provider and verifier (single discovery fetch)
	dctx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(dctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scope := config.Scope
	if scope == "" {
		scope = "openid profile"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Handoff runs one interactive OAuth flow. It publishes the auth URL, waits
// for the callback to deliver the authorization code, exchanges it, and
// verifies the id_token nonce before returning the identity and credentials.
func (p *Provider) Handoff(ctx context.Context) (domainauth.Identity, domainauth.Credentials, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return domainauth.Identity{}, domainauth.Credentials{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return domainauth.Identity{}, domainauth.Credentials{}, fmt.Errorf("generate nonce: %w", err)
	}

	handoff := pendingHandoff{
		state:  state,
		result: make(chan callbackResult, 1),
	}
	select {
	case p.pending <- handoff:
	default:
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Handoff("another handoff is already in progress")
	}
	defer p.clearPending(handoff)

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	p.onAuthURL(authURL)

	timer := time.NewTimer(p.handoffTimeout)
	defer timer.Stop()

	var code string
	select {
	case <-ctx.Done():
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeHandoff, "handoff cancelled")
	case <-timer.C:
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Handoff("handoff timed out waiting for callback")
	case res := <-handoff.result:
		if res.err != nil {
			return domainauth.Identity{}, domainauth.Credentials{}, res.err
		}
		code = res.code
	}

	ectx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ectx, code)
	if err != nil {
		return domainauth.Identity{}, domainauth.Credentials{}, apperrors.Wrap(err, apperrors.ErrCodeHandoff, "exchange code for token")
	}

	identity, err := p.identityFromToken(ctx, token, nonce)
	if err != nil {
		return domainauth.Identity{}, domainauth.Credentials{}, err
	}

	if p.cache != nil {
		if err := p.cache.Save(ctx, identity); err != nil {
			return domainauth.Identity{}, domainauth.Credentials{}, fmt.Errorf("cache identity: %w", err)
		}
	}

	return identity, domainauth.Credentials{AccessToken: token.AccessToken}, nil
}

// CompleteCallback delivers the authorization code from the HTTP callback to
// the waiting handoff. It validates state before accepting the code.
func (p *Provider) CompleteCallback(code, state string) error {
	if code == "" {
		return apperrors.Validation("authorization code is required")
	}
	return p.deliver(state, callbackResult{code: code})
}

// FailCallback aborts the waiting handoff, e.g. when the provider redirected
// back with an error such as access_denied.
func (p *Provider) FailCallback(state, reason string) error {
	if reason == "" {
		reason = "handoff rejected by provider"
	}
	return p.deliver(state, callbackResult{err: apperrors.Handoff(reason)})
}

// AuthState reports the provider's current identity from the identity cache.
func (p *Provider) AuthState(ctx context.Context) (*domainauth.Identity, error) {
	if p.cache == nil {
		return nil, nil
	}
	identity, err := p.cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached identity: %w", err)
	}
	return identity, nil
}

// EndSession clears the provider-side identity state.
func (p *Provider) EndSession(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cached identity: %w", err)
	}
	return nil
}

// deliver hands a callback result to the pending handoff, validating state.
// The handoff is left pending on a state mismatch: a mismatched callback is
// either stale or forged and must not consume the flow.
func (p *Provider) deliver(state string, res callbackResult) error {
	select {
	case handoff := <-p.pending:
		if handoff.state != state {
			p.pending <- handoff
			return apperrors.Handoff("state parameter does not match the pending handoff")
		}
		handoff.result <- res
		return nil
	default:
		return apperrors.Handoff("no handoff in progress")
	}
}

// clearPending removes the handoff from the rendezvous slot if it is still
// there (i.e. the callback never arrived).
func (p *Provider) clearPending(handoff pendingHandoff) {
	select {
	case pending := <-p.pending:
		if pending.state != handoff.state {
			// A newer handoff took the slot; put it back.
			p.pending <- pending
		}
	default:
	}
}

// idTokenClaims is the subset of standard OIDC claims the engine uses.
type idTokenClaims struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Nonce             string `json:"nonce"`
}

// identityFromToken verifies the id_token and maps its claims to an Identity.
func (p *Provider) identityFromToken(ctx context.Context, token *oauth2.Token, expectedNonce string) (domainauth.Identity, error) {
	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, apperrors.Handoff("missing id_token in token response")
	}

	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeHandoff, "verify id_token")
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeHandoff, "parse id_token claims")
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return domainauth.Identity{}, apperrors.Handoff("invalid nonce")
	}
	if claims.Sub == "" {
		return domainauth.Identity{}, apperrors.Handoff("id_token missing sub claim")
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = claims.PreferredUsername
	}
	if displayName == "" {
		displayName = claims.Sub
	}

	return domainauth.Identity{
		ID:          claims.Sub,
		DisplayName: displayName,
	}, nil
}

// generateRandomString generates a cryptographically secure URL-safe random
// string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
