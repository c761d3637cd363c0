package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/service"
	"github.com/adadev/review-ui-api/internal/session"
)

// AuthEngine defines the lifecycle operations the auth handlers need.
type AuthEngine interface {
	CurrentSession() domainauth.Session
	Phase() domainauth.Phase
	SignIn(ctx context.Context) (*service.SignInResult, error)
	SignOut(ctx context.Context) error
}

// CallbackReceiver accepts OAuth callback deliveries for a pending handoff.
// Nil when the configured identity provider has no browser flow (mock mode).
type CallbackReceiver interface {
	CompleteCallback(code, state string) error
	FailCallback(state, reason string) error
}

// AuthHandlers provides HTTP handlers for the session engine.
type AuthHandlers struct {
	Engine       AuthEngine
	Sessions     *session.Store
	CallbackFlow CallbackReceiver

	// AuthURLs receives the provider auth URL published during a handoff.
	// Nil in mock mode, where sign-in completes without a browser step.
	AuthURLs <-chan string

	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// sessionPayload is the wire form of the session plus the flow phase.
type sessionPayload struct {
	Phase   domainauth.Phase   `json:"phase"`
	Session domainauth.Session `json:"session"`
}

// Session handles GET /auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, sessionPayload{
		Phase:   h.Engine.Phase(),
		Session: h.Engine.CurrentSession(),
	})
}

// SignIn handles POST /auth/signin. It starts the sign-in flow and responds
// with either the provider auth URL (the browser handoff continues out of
// band) or, when the provider completes immediately, the resulting session.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	done := make(chan error, 1)
	// The flow must outlive this request: the browser handoff completes via
	// a later /auth/callback request.
	go func() {
		_, err := h.Engine.SignIn(context.Background())
		if err != nil && !errors.Is(err, service.ErrAuthInProgress) {
			h.logger().Warn("sign-in failed", "error", err)
		}
		done <- err
	}()

	var authURLs <-chan string
	if h.AuthURLs != nil {
		authURLs = h.AuthURLs
	}

	select {
	case authURL := <-authURLs:
		WriteJSON(w, http.StatusAccepted, map[string]string{"auth_url": authURL})
	case err := <-done:
		if err != nil {
			writeEngineError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, sessionPayload{
			Phase:   h.Engine.Phase(),
			Session: h.Engine.CurrentSession(),
		})
	case <-r.Context().Done():
		// Client gave up; the background flow keeps running and its
		// outcome lands in the session store.
	}
}

// Callback handles GET /auth/callback?code=<code>&state=<state>.
// It hands the authorization code to the pending handoff; the engine's
// sign-in goroutine picks it up from there.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.CallbackFlow == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "no_callback_flow",
			Err:     errors.New("the configured identity provider has no browser callback"),
		})
		return
	}

	state := r.URL.Query().Get("state")
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		if err := h.CallbackFlow.FailCallback(state, "provider returned "+errCode); err != nil {
			writeEngineError(w, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	if err := h.CallbackFlow.CompleteCallback(code, state); err != nil {
		writeEngineError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut handles POST /auth/signout. Safe to call from any state.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.SignOut(r.Context()); err != nil {
		h.logger().Warn("sign-out cleanup incomplete", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events handles GET /auth/events: a Server-Sent Events stream of session
// snapshots, starting with the current one.
func (h *AuthHandlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("response writer does not support streaming"),
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates, cancel := h.Sessions.Subscribe()
	defer cancel()

	// Heartbeats keep intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case sess, open := <-updates:
			if !open {
				return
			}
			if err := writeSSE(w, sessionPayload{Phase: h.Engine.Phase(), Session: sess}); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEngineError maps engine error codes onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	errCode := "internal"
	switch {
	case errors.Is(err, service.ErrAuthInProgress):
		code = http.StatusConflict
		errCode = "auth_in_progress"
	case errors.Is(err, service.ErrResolutionSuperseded):
		code = http.StatusConflict
		errCode = "signed_out"
	case apperrors.IsHandoff(err):
		code = http.StatusBadGateway
		errCode = "handoff_failed"
	case apperrors.IsHost(err):
		code = http.StatusBadGateway
		errCode = "host_error"
	case apperrors.IsTransport(err):
		code = http.StatusBadGateway
		errCode = "transport_error"
	case apperrors.IsValidation(err):
		code = http.StatusBadRequest
		errCode = "validation"
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}
