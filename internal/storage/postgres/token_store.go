package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Save upserts a token record keyed by unit.
func (s *TokenStore) Save(ctx context.Context, token *domain.TokenInfo) error {
	if token == nil || token.Unit == "" {
		return storage.ErrInvalidInput
	}

	metadata, err := marshalMetadata(token.Metadata)
	if err != nil {
		return fmt.Errorf("marshal token metadata: %w", err)
	}

	query := `
		INSERT INTO token_info (
			unit, policy_id, asset_name, name, ticker, decimals, category, logo, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (unit) DO UPDATE SET
			policy_id = EXCLUDED.policy_id,
			asset_name = EXCLUDED.asset_name,
			name = EXCLUDED.name,
			ticker = EXCLUDED.ticker,
			decimals = EXCLUDED.decimals,
			category = EXCLUDED.category,
			logo = EXCLUDED.logo,
			metadata = EXCLUDED.metadata
	`

	_, err = s.pool.Exec(ctx, query,
		token.Unit,
		token.PolicyID,
		token.AssetName,
		token.Name,
		token.Ticker,
		token.Decimals,
		string(token.Category),
		token.Logo,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("upsert token info: %w", err)
	}
	return nil
}

// FindByUnit retrieves token info by unit. Returns ErrNotFound if not exists.
func (s *TokenStore) FindByUnit(ctx context.Context, unit string) (*domain.TokenInfo, error) {
	query := `
		SELECT unit, policy_id, asset_name, name, ticker, decimals, category, logo, metadata
		FROM token_info
		WHERE unit = $1
	`

	row := s.pool.QueryRow(ctx, query, unit)
	t, err := scanTokenInfo(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token info by unit: %w", err)
	}
	return t, nil
}

// FindByUnits retrieves all known records among units.
func (s *TokenStore) FindByUnits(ctx context.Context, units []string) (map[string]*domain.TokenInfo, error) {
	if len(units) == 0 {
		return map[string]*domain.TokenInfo{}, nil
	}

	query := `
		SELECT unit, policy_id, asset_name, name, ticker, decimals, category, logo, metadata
		FROM token_info
		WHERE unit = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, units)
	if err != nil {
		return nil, fmt.Errorf("get token info by units: %w", err)
	}
	defer rows.Close()

	found := make(map[string]*domain.TokenInfo, len(units))
	for rows.Next() {
		t, err := scanTokenInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token info: %w", err)
		}
		found[t.Unit] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token info rows: %w", err)
	}
	return found, nil
}

// scanTokenInfo scans a single row into TokenInfo.
func scanTokenInfo(row pgx.Row) (*domain.TokenInfo, error) {
	var (
		t        domain.TokenInfo
		category string
		metadata []byte
	)

	err := row.Scan(
		&t.Unit,
		&t.PolicyID,
		&t.AssetName,
		&t.Name,
		&t.Ticker,
		&t.Decimals,
		&category,
		&t.Logo,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	t.Category = domain.TokenCategory(category)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal token metadata: %w", err)
		}
	}
	return &t, nil
}

// marshalMetadata encodes the provenance map as JSONB, nil-safe.
func marshalMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
