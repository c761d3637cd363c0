package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/adadev/review-ui-api/internal/domain/auth"
)

// DefaultIdentityKey is the key the provider identity is cached under.
const DefaultIdentityKey = "auth:provider_identity"

// IdentityCache persists the identity provider's signed-in identity so the
// provider's auth state survives process restarts, the way a browser IdP SDK
// keeps its own session. It backs the OIDC adapter's AuthState.
type IdentityCache struct {
	client redis.UniversalClient
	key    string
}

// NewIdentityCache creates an identity cache using the default key.
func NewIdentityCache(client redis.UniversalClient) *IdentityCache {
	return NewIdentityCacheWithKey(client, DefaultIdentityKey)
}

// NewIdentityCacheWithKey creates an identity cache with a custom key.
func NewIdentityCacheWithKey(client redis.UniversalClient, key string) *IdentityCache {
	if key == "" {
		key = DefaultIdentityKey
	}
	return &IdentityCache{
		client: client,
		key:    key,
	}
}

// Load returns the cached identity, or (nil, nil) when signed out.
func (c *IdentityCache) Load(ctx context.Context) (*domainauth.Identity, error) {
	data, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var identity domainauth.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return &identity, nil
}

// Save stores the identity.
func (c *IdentityCache) Save(ctx context.Context, identity domainauth.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes the cached identity.
func (c *IdentityCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
