package redis

// Package redis provides the Redis-backed persistent token store.
// It holds the single opaque access token under a well-known key so a
// restarted process can re-derive its session without a new OAuth handoff.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/adadev/review-ui-api/internal/cryptoutil"
	apperrors "github.com/adadev/review-ui-api/internal/errors"
	"github.com/adadev/review-ui-api/internal/ports"
)

// DefaultTokenKey is the well-known key the access token is stored under.
const DefaultTokenKey = "auth:access_token"

// Ensure compile-time conformance to the port.
var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStoreOptions groups dependencies for TokenStore.
type TokenStoreOptions struct {
	Client redis.UniversalClient
	// Key overrides the storage key. Defaults to DefaultTokenKey.
	Key string
	// Encryptor encrypts the token at rest. Nil stores it in the clear.
	Encryptor cryptoutil.Encryptor
}

// TokenStore persists the access token in Redis. The token is stored without
// a TTL: its validity is governed by the repository host, and a stale token
// simply fails the next rehydration.
type TokenStore struct {
	client redis.UniversalClient
	key    string
	enc    cryptoutil.Encryptor
}

// NewTokenStore creates a plaintext token store using the default key.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return NewTokenStoreWithOptions(TokenStoreOptions{Client: client})
}

// NewTokenStoreWithKey creates a plaintext token store with a custom key.
func NewTokenStoreWithKey(client redis.UniversalClient, key string) *TokenStore {
	return NewTokenStoreWithOptions(TokenStoreOptions{Client: client, Key: key})
}

// NewTokenStoreWithOptions creates a token store from options.
func NewTokenStoreWithOptions(opts TokenStoreOptions) *TokenStore {
	key := opts.Key
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenStore{
		client: opts.Client,
		key:    key,
		enc:    opts.Encryptor,
	}
}

func (s *TokenStore) Get(ctx context.Context) (string, error) {
	stored, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound("no stored access token")
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	if s.enc == nil {
		return stored, nil
	}
	token, err := s.enc.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("decrypt stored token: %w", err)
	}
	return string(token), nil
}

func (s *TokenStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.Validation("access token cannot be empty")
	}
	stored := token
	if s.enc != nil {
		var err error
		stored, err = s.enc.Encrypt([]byte(token))
		if err != nil {
			return fmt.Errorf("encrypt token: %w", err)
		}
	}
	if err := s.client.Set(ctx, s.key, stored, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *TokenStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
