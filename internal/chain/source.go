// Package chain supplies block-confirmed raw transactions from an
// upstream indexer, over HTTP for backfill and over websocket for
// following the live tip.
package chain

import (
	"context"

	"cardano-wallet-sync/internal/domain"
)

// Source provides confirmed transactions for a wallet address, oldest
// first, in pages. Pages are 1-based; an empty page marks the end.
type Source interface {
	FetchTransactions(ctx context.Context, walletAddress string, page int) ([]*domain.RawTransaction, error)
}
