package githubapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	return client, server
}

func TestClient_CurrentUser(t *testing.T) {
	var gotAuth, gotAccept string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat","id":1}`))
	}))

	login, err := client.CurrentUser(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
}

func TestClient_CurrentUser_MissingLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.CurrentUser(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
}

func TestClient_TeamMembership(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teams/1234567/memberships/octocat", r.URL.Path)
		_, _ = w.Write([]byte(`{"url":"https://api.github.com/teams/1234567/memberships/octocat","role":"member","state":"active"}`))
	}))

	m, err := client.TeamMembership(context.Background(), "1234567", "octocat", "tok")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, domainauth.MembershipRoleMember, m.Role)
	assert.Equal(t, domainauth.MembershipStateActive, m.State)
}

func TestClient_TeamMembership_404IsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))

	m, err := client.TeamMembership(context.Background(), "1234567", "octocat", "tok")
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, apperrors.IsNotFound(err))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(reqErr.Body))
}

func TestClient_TeamMembership_ServerErrorIsHost(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.TeamMembership(context.Background(), "1234567", "octocat", "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsHost(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestClient_TeamMembership_ValidatesInput(t *testing.T) {
	client := NewClient(Config{})

	_, err := client.TeamMembership(context.Background(), "", "octocat", "tok")
	assert.True(t, apperrors.IsValidation(err))

	_, err = client.TeamMembership(context.Background(), "1234567", "", "tok")
	assert.True(t, apperrors.IsValidation(err))
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})

	_, err := client.CurrentUser(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
}

func TestClient_MalformedJSONIsTransport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"login":`))
	}))

	_, err := client.CurrentUser(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
}

func TestClient_SearchOpenPullRequests(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/issues", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"total_count": 2,
			"items": [
				{"number": 7, "title": "Add wave 1", "html_url": "https://github.com/Ada-C4/proj/pull/7",
				 "repository_url": "https://api.github.com/repos/Ada-C4/proj",
				 "created_at": "2016-03-01T12:00:00Z", "user": {"login": "student-a"}},
				{"number": 3, "title": "Fix specs", "html_url": "https://github.com/Ada-C5/proj/pull/3",
				 "repository_url": "https://api.github.com/repos/Ada-C5/proj",
				 "created_at": "2016-03-02T08:30:00Z", "user": {"login": "student-b"}}
			]
		}`))
	}))

	prs, err := client.SearchOpenPullRequests(context.Background(), []string{"Ada-C4", "Ada-C5"}, "tok")
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, "q=is:open+org:Ada-C4+org:Ada-C5", gotQuery)
	assert.Equal(t, 7, prs[0].Number)
	assert.Equal(t, "student-a", prs[0].Author)
	assert.Equal(t, "https://github.com/Ada-C5/proj/pull/3", prs[1].HTMLURL)

	_, err = client.SearchOpenPullRequests(context.Background(), nil, "tok")
	assert.True(t, apperrors.IsValidation(err))
}

func TestClient_AbsoluteURLPassThrough(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teams/1234567/memberships/octocat", r.URL.Path)
		_, _ = w.Write([]byte(`{"url":"u","role":"member","state":"pending"}`))
	}))
	defer server.Close()

	// Base URL points somewhere unreachable; the absolute https URL must
	// win over it.
	client := NewClient(Config{BaseURL: "https://unreachable.invalid", Client: server.Client()})

	var membership domainauth.Membership
	err := client.get(context.Background(), server.URL+"/teams/1234567/memberships/octocat", "tok", &membership)
	require.NoError(t, err)
	assert.Equal(t, domainauth.MembershipStatePending, membership.State)
}

func TestFormatSearchQuery(t *testing.T) {
	tests := []struct {
		name   string
		params []SearchParam
		want   string
	}{
		{name: "empty", params: nil, want: ""},
		{
			name:   "single key single value",
			params: []SearchParam{{Key: "is", Values: []string{"open"}}},
			want:   "is:open",
		},
		{
			name: "multi-value key fans out",
			params: []SearchParam{
				{Key: "is", Values: []string{"open"}},
				{Key: "org", Values: []string{"Ada-C4", "Ada-C5"}},
			},
			want: "is:open+org:Ada-C4+org:Ada-C5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSearchQuery(tt.params))
		})
	}
}
