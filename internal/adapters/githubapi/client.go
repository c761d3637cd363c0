package githubapi

// Package githubapi provides the repository-host client for the engine.
// It speaks the small slice of the GitHub REST API the session engine and
// the dashboard need, and normalizes non-success responses into typed errors.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	"github.com/adadev/review-ui-api/internal/domain/model"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
)

// DefaultBaseURL is the public GitHub REST API base.
const DefaultBaseURL = "https://api.github.com/"

// Ensure compile-time conformance to the port.
var _ ports.RepositoryHost = (*Client)(nil)

// Config captures the subset of client behaviour we need.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client issues authenticated requests against the repository host.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a repository-host client. Zero-value config fields fall
// back to the public API base and a 30s request timeout.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		client:  hc,
	}
}

// RequestError is the typed form of a non-2xx response from the host.
// Body holds the parsed JSON error payload when one could be decoded.
type RequestError struct {
	StatusCode int
	StatusText string
	Body       json.RawMessage
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("repository host returned %d %s", e.StatusCode, e.StatusText)
}

// userPayload is the identity endpoint response.
type userPayload struct {
	Login string `json:"login"`
}

// CurrentUser resolves the host login name for the bearer token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (string, error) {
	var payload userPayload
	if err := c.get(ctx, "user", accessToken, &payload); err != nil {
		return "", fmt.Errorf("fetch current user: %w", err)
	}
	if payload.Login == "" {
		return "", apperrors.Transport("identity response missing login")
	}
	return payload.Login, nil
}

// TeamMembership looks up the username's membership in a team. A 404 from
// the host surfaces as a NotFound-coded error; callers treat it as absence.
func (c *Client) TeamMembership(ctx context.Context, teamID, username, accessToken string) (*domainauth.Membership, error) {
	if teamID == "" || username == "" {
		return nil, apperrors.Validation("team ID and username are required")
	}

	var membership domainauth.Membership
	path := fmt.Sprintf("teams/%s/memberships/%s", teamID, username)
	if err := c.get(ctx, path, accessToken, &membership); err != nil {
		return nil, fmt.Errorf("fetch team membership: %w", err)
	}
	return &membership, nil
}

// searchPayload is the issue search response. Items carry issue fields plus
// the owning repository URL; pull requests are issues to this endpoint.
type searchPayload struct {
	Items []struct {
		Number        int       `json:"number"`
		Title         string    `json:"title"`
		HTMLURL       string    `json:"html_url"`
		RepositoryURL string    `json:"repository_url"`
		CreatedAt     time.Time `json:"created_at"`
		User          struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"items"`
}

// SearchOpenPullRequests lists open pull requests across the given orgs.
func (c *Client) SearchOpenPullRequests(ctx context.Context, orgs []string, accessToken string) ([]model.PullRequest, error) {
	if len(orgs) == 0 {
		return nil, apperrors.Validation("at least one org is required")
	}

	query := FormatSearchQuery([]SearchParam{
		{Key: "is", Values: []string{"open"}},
		{Key: "org", Values: orgs},
	})

	var payload searchPayload
	if err := c.get(ctx, "search/issues?q="+query, accessToken, &payload); err != nil {
		return nil, fmt.Errorf("search open pull requests: %w", err)
	}

	prs := make([]model.PullRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		prs = append(prs, model.PullRequest{
			Number:        item.Number,
			Title:         item.Title,
			HTMLURL:       item.HTMLURL,
			RepositoryURL: item.RepositoryURL,
			Author:        item.User.Login,
			CreatedAt:     item.CreatedAt,
		})
	}
	return prs, nil
}

// SearchParam is one key with one or more values in a search query.
type SearchParam struct {
	Key    string
	Values []string
}

// FormatSearchQuery renders params as the host's search syntax: each value
// becomes key:value and terms are joined with "+". Values are expected to be
// URL-safe identifiers (org and login names), so no escaping is applied.
func FormatSearchQuery(params []SearchParam) string {
	terms := make([]string, 0, len(params))
	for _, p := range params {
		for _, v := range p.Values {
			terms = append(terms, p.Key+":"+v)
		}
	}
	return strings.Join(terms, "+")
}

// get issues an authenticated GET and decodes the JSON response into out.
// Relative paths are resolved against the configured base URL; absolute
// https URLs pass through unchanged.
func (c *Client) get(ctx context.Context, path, accessToken string, out any) error {
	url := path
	if !strings.HasPrefix(url, "https") {
		url = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, "request repository host")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			StatusCode: resp.StatusCode,
			StatusText: resp.Status,
		}
		if json.Valid(body) {
			reqErr.Body = json.RawMessage(body)
		}
		code := apperrors.ErrCodeHost
		if resp.StatusCode == http.StatusNotFound {
			code = apperrors.ErrCodeNotFound
		}
		return apperrors.Wrapf(reqErr, code, "request %s", path)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, "decode response body")
	}
	return nil
}
