package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/adadev/review-ui-api/config"
	"github.com/adadev/review-ui-api/internal/adapters/devauth"
	"github.com/adadev/review-ui-api/internal/adapters/githubapi"
	"github.com/adadev/review-ui-api/internal/adapters/oidc"
	redisadapter "github.com/adadev/review-ui-api/internal/adapters/redis"
	"github.com/adadev/review-ui-api/internal/cryptoutil"
	httpx "github.com/adadev/review-ui-api/internal/http"
	"github.com/adadev/review-ui-api/internal/ports"
	"github.com/adadev/review-ui-api/internal/service"
	"github.com/adadev/review-ui-api/internal/session"
)

// Engine bundles the constructed session engine and the pieces the HTTP
// layer needs to expose it.
type Engine struct {
	Lifecycle *service.Lifecycle
	Sessions  *session.Store
	Host      ports.RepositoryHost

	// Callback and AuthURLs are nil in mock auth mode.
	Callback httpx.CallbackReceiver
	AuthURLs <-chan string
}

// EngineDeps contains dependencies for BuildEngine.
type EngineDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildEngine wires the session engine from configuration: repository-host
// client, token store, role resolver, identity provider (per auth mode),
// session store, and the lifecycle controller on top.
func BuildEngine(ctx context.Context, deps EngineDeps) (*Engine, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	host := githubapi.NewClient(githubapi.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: cfg.GitHub.RequestTimeout,
	})

	var enc cryptoutil.Encryptor
	if cfg.Redis.TokenCipherKey != "" {
		aes, err := cryptoutil.ParseKey(cfg.Redis.TokenCipherKey)
		if err != nil {
			return nil, fmt.Errorf("parse token cipher key: %w", err)
		}
		enc = aes
	}

	sessions := session.NewStore()
	tokens := redisadapter.NewTokenStoreWithOptions(redisadapter.TokenStoreOptions{
		Client:    deps.RedisClient,
		Encryptor: enc,
	})
	roles := service.NewTeamRoleResolver(service.TeamRoleResolverOptions{
		Host:             host,
		VolunteerTeamID:  cfg.GitHub.VolunteerTeamID,
		InstructorTeamID: cfg.GitHub.InstructorTeamID,
	})

	var (
		provider ports.IdentityProvider
		callback httpx.CallbackReceiver
		authURLs <-chan string
	)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		p, err := devauth.NewProvider(devauth.Config{
			UserID:      cfg.Auth.DevAuth.UserID,
			DisplayName: cfg.Auth.DevAuth.DisplayName,
			AccessToken: cfg.Auth.DevAuth.AccessToken,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		provider = p

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, fmt.Errorf("oauth auth mode requires discovery URL, client ID, and client secret")
		}

		urls := make(chan string, 1)
		p, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:       oauth.ClientID,
			ClientSecret:   oauth.ClientSecret,
			RedirectURL:    oauth.RedirectURL,
			Scope:          oauth.Scope,
			DiscoveryURL:   oauth.DiscoveryURL,
			HandoffTimeout: oauth.HandoffTimeout,
			IdentityCache:  redisadapter.NewIdentityCache(deps.RedisClient),
			OnAuthURL: func(authURL string) {
				// Keep only the newest URL if nobody consumed the last one.
				select {
				case urls <- authURL:
				default:
					select {
					case <-urls:
					default:
					}
					urls <- authURL
				}
			},
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		provider = p
		callback = p
		authURLs = urls

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Auth.Mode)
	}

	lifecycle := service.NewLifecycle(service.LifecycleOptions{
		Provider: provider,
		Tokens:   tokens,
		Host:     host,
		Roles:    roles,
		Sessions: sessions,
		Logger:   deps.Logger,
	})

	return &Engine{
		Lifecycle: lifecycle,
		Sessions:  sessions,
		Host:      host,
		Callback:  callback,
		AuthURLs:  authURLs,
	}, nil
}
