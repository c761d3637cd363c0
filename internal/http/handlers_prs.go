package httpx

import (
	"errors"
	"net/http"

	"github.com/adadev/review-ui-api/internal/domain/model"
	"github.com/adadev/review-ui-api/internal/ports"
)

// PullRequestHandlers serves the open-PR listing for the dashboard.
// Requests ride on the signed-in session's access token.
type PullRequestHandlers struct {
	Engine AuthEngine
	Host   ports.RepositoryHost
	Orgs   []string
}

// openPRsPayload is the wire form of the PR listing.
type openPRsPayload struct {
	Items []model.PullRequest `json:"items"`
}

// Open handles GET /prs/open.
func (h *PullRequestHandlers) Open(w http.ResponseWriter, r *http.Request) {
	sess := h.Engine.CurrentSession()
	if !sess.SignedIn() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "not_signed_in",
			Err:     errors.New("sign in to list pull requests"),
		})
		return
	}

	prs, err := h.Host.SearchOpenPullRequests(r.Context(), h.Orgs, sess.AccessToken)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, openPRsPayload{Items: prs})
}
