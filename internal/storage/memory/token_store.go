package memory

import (
	"context"
	"sync"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	byUnit map[string]*domain.TokenInfo
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byUnit: make(map[string]*domain.TokenInfo),
	}
}

var _ storage.TokenStore = (*TokenStore)(nil)

// FindByUnit retrieves token info by unit. Returns ErrNotFound if not exists.
func (s *TokenStore) FindByUnit(_ context.Context, unit string) (*domain.TokenInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.byUnit[unit]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// FindByUnits retrieves all known records among units.
func (s *TokenStore) FindByUnits(_ context.Context, units []string) (map[string]*domain.TokenInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]*domain.TokenInfo, len(units))
	for _, unit := range units {
		if t, exists := s.byUnit[unit]; exists {
			found[unit] = copyToken(t)
		}
	}
	return found, nil
}

// Save upserts a token record keyed by unit.
func (s *TokenStore) Save(_ context.Context, token *domain.TokenInfo) error {
	if token == nil || token.Unit == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUnit[token.Unit] = copyToken(token)
	return nil
}

// copyToken deep-copies a token so callers cannot mutate stored state.
func copyToken(t *domain.TokenInfo) *domain.TokenInfo {
	tokenCopy := *t
	if t.Metadata != nil {
		tokenCopy.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			tokenCopy.Metadata[k] = v
		}
	}
	return &tokenCopy
}
