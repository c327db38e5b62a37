package storage

import (
	"context"
	"errors"
	"log"

	"cardano-wallet-sync/internal/domain"
)

// TieredTokenStore layers a fast shared cache store (typically Redis)
// in front of a durable primary store (typically Postgres). Reads try
// the cache first and fall through to the primary, backfilling the
// cache on a hit. Writes go through to both; the primary is
// authoritative, so a cache write failure is logged and ignored while a
// primary write failure is returned.
type TieredTokenStore struct {
	cache   TokenStore
	primary TokenStore
}

// NewTieredTokenStore creates a tiered store over a cache and a primary.
func NewTieredTokenStore(cache, primary TokenStore) *TieredTokenStore {
	return &TieredTokenStore{cache: cache, primary: primary}
}

var _ TokenStore = (*TieredTokenStore)(nil)

// FindByUnit retrieves token info by unit, cache first. Returns
// ErrNotFound only when both tiers miss.
func (s *TieredTokenStore) FindByUnit(ctx context.Context, unit string) (*domain.TokenInfo, error) {
	token, err := s.cache.FindByUnit(ctx, unit)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrNotFound) {
		log.Printf("token store: cache tier lookup %s failed: %v", unit, err)
	}

	token, err = s.primary.FindByUnit(ctx, unit)
	if err != nil {
		return nil, err
	}
	s.backfill(ctx, token)
	return token, nil
}

// FindByUnits retrieves all known records among units, merging cache
// hits with primary hits for the remainder.
func (s *TieredTokenStore) FindByUnits(ctx context.Context, units []string) (map[string]*domain.TokenInfo, error) {
	found, err := s.cache.FindByUnits(ctx, units)
	if err != nil {
		log.Printf("token store: cache tier batch lookup failed: %v", err)
		found = map[string]*domain.TokenInfo{}
	}

	var missing []string
	for _, unit := range units {
		if _, ok := found[unit]; !ok {
			missing = append(missing, unit)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	fromPrimary, err := s.primary.FindByUnits(ctx, missing)
	if err != nil {
		return nil, err
	}
	for unit, token := range fromPrimary {
		found[unit] = token
		s.backfill(ctx, token)
	}
	return found, nil
}

// Save upserts into the primary store, then writes through to the cache.
func (s *TieredTokenStore) Save(ctx context.Context, token *domain.TokenInfo) error {
	if err := s.primary.Save(ctx, token); err != nil {
		return err
	}
	s.backfill(ctx, token)
	return nil
}

// backfill writes a record into the cache tier, logging failures.
func (s *TieredTokenStore) backfill(ctx context.Context, token *domain.TokenInfo) {
	if err := s.cache.Save(ctx, token); err != nil {
		log.Printf("token store: cache tier save %s failed: %v", token.Unit, err)
	}
}
