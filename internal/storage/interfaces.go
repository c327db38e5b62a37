package storage

import (
	"context"

	"cardano-wallet-sync/internal/domain"
)

// TokenStore provides access to persisted token metadata.
// Save has idempotent upsert semantics: re-saving an existing unit
// replaces the record and is never an error.
type TokenStore interface {
	// FindByUnit retrieves token info by unit. Returns ErrNotFound if not exists.
	FindByUnit(ctx context.Context, unit string) (*domain.TokenInfo, error)

	// FindByUnits retrieves all known records among units. Unknown units
	// are simply absent from the result map.
	FindByUnits(ctx context.Context, units []string) (map[string]*domain.TokenInfo, error)

	// Save upserts a token record keyed by unit.
	Save(ctx context.Context, token *domain.TokenInfo) error
}

// WalletTransactionStore provides access to parsed wallet transactions.
// Upserts are keyed by the deterministic transaction id, so re-syncing
// the same range converges to the same rows.
type WalletTransactionStore interface {
	// Upsert inserts or replaces a single transaction record.
	Upsert(ctx context.Context, tx *domain.WalletTransaction) error

	// UpsertBulk inserts or replaces multiple records.
	UpsertBulk(ctx context.Context, txs []*domain.WalletTransaction) error

	// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error)

	// GetByWallet retrieves all records for a wallet, ordered by
	// timestamp DESC then tx hash for stability.
	GetByWallet(ctx context.Context, walletAddress string) ([]*domain.WalletTransaction, error)
}
