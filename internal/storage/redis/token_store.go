// Package redis provides a Redis-backed TokenStore. It serves as a
// shared token cache tier when multiple sync workers run against the
// same wallet set, sitting between each worker's in-process cache and
// the durable Postgres store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

const tokenKeyPrefix = "token:"

// TokenStore implements storage.TokenStore using Redis with JSON payloads.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration // 0 = no expiry
}

// NewTokenStore creates a new Redis token store.
func NewTokenStore(addr, password string, db int, ttl time.Duration) *TokenStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &TokenStore{client: client, ttl: ttl}
}

// NewTokenStoreWithClient wraps an existing client (tests).
func NewTokenStoreWithClient(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Ensure TokenStore implements the storage interface.
var _ storage.TokenStore = (*TokenStore)(nil)

// FindByUnit retrieves token info by unit. Returns ErrNotFound if not exists.
func (s *TokenStore) FindByUnit(ctx context.Context, unit string) (*domain.TokenInfo, error) {
	data, err := s.client.Get(ctx, tokenKeyPrefix+unit).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis get token %s: %w", unit, err)
	}

	var token domain.TokenInfo
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("unmarshal token %s: %w", unit, err)
	}
	return &token, nil
}

// FindByUnits retrieves all known records among units using one MGET.
func (s *TokenStore) FindByUnits(ctx context.Context, units []string) (map[string]*domain.TokenInfo, error) {
	if len(units) == 0 {
		return map[string]*domain.TokenInfo{}, nil
	}

	keys := make([]string, len(units))
	for i, unit := range units {
		keys[i] = tokenKeyPrefix + unit
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget tokens: %w", err)
	}

	found := make(map[string]*domain.TokenInfo, len(units))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			continue // nil = miss
		}
		var token domain.TokenInfo
		if err := json.Unmarshal([]byte(data), &token); err != nil {
			return nil, fmt.Errorf("unmarshal token %s: %w", units[i], err)
		}
		found[units[i]] = &token
	}
	return found, nil
}

// Save upserts a token record keyed by unit.
func (s *TokenStore) Save(ctx context.Context, token *domain.TokenInfo) error {
	if token == nil || token.Unit == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token %s: %w", token.Unit, err)
	}

	if err := s.client.Set(ctx, tokenKeyPrefix+token.Unit, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token %s: %w", token.Unit, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *TokenStore) Close() error {
	return s.client.Close()
}
