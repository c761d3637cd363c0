package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adadev/review-ui-api/internal/ports"
	"github.com/adadev/review-ui-api/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Engine   AuthEngine
	Sessions *session.Store
	Host     ports.RepositoryHost
	Callback CallbackReceiver // nil in mock auth mode
	AuthURLs <-chan string    // nil in mock auth mode
	Orgs     []string
	Logger   *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Engine:       services.Engine,
		Sessions:     services.Sessions,
		CallbackFlow: services.Callback,
		AuthURLs:     services.AuthURLs,
		Logger:       services.Logger,
	}
	prHandlers := &PullRequestHandlers{
		Engine: services.Engine,
		Host:   services.Host,
		Orgs:   services.Orgs,
	}

	mux.HandleFunc("GET /auth/session", authHandlers.Session)
	mux.HandleFunc("POST /auth/signin", authHandlers.SignIn)
	mux.HandleFunc("GET /auth/callback", authHandlers.Callback)
	mux.HandleFunc("POST /auth/signout", authHandlers.SignOut)
	mux.HandleFunc("GET /auth/events", authHandlers.Events)
	mux.HandleFunc("GET /prs/open", prHandlers.Open)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return requestLogger(mux, services.Logger)
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(next http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
