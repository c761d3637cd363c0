// Package model holds wire-facing domain records shared between the
// repository-host adapter and the HTTP layer.
package model

import "time"

// PullRequest is a single open pull request returned by the repository
// host's issue search endpoint. Only the fields the dashboard renders are
// decoded; everything else in the search payload is ignored.
type PullRequest struct {
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	HTMLURL       string    `json:"html_url"`
	RepositoryURL string    `json:"repository_url"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
}
