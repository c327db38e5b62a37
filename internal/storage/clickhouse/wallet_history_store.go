package clickhouse

import (
	"context"
	"fmt"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// WalletHistoryStore mirrors parsed wallet transactions into ClickHouse
// for analytics queries (action breakdowns, per-wallet history scans).
// It is an append-only sink backed by ReplacingMergeTree keyed on id,
// so re-syncing the same range converges after merges.
type WalletHistoryStore struct {
	conn *Conn
}

// NewWalletHistoryStore creates a new WalletHistoryStore.
func NewWalletHistoryStore(conn *Conn) *WalletHistoryStore {
	return &WalletHistoryStore{conn: conn}
}

// InsertBulk appends a batch of wallet transactions.
func (s *WalletHistoryStore) InsertBulk(ctx context.Context, txs []*domain.WalletTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_history (
			id, wallet_address, tx_hash, block_height, tx_timestamp,
			tx_action, tx_protocol, asset_flows, net_ada_change, fees, description
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tx := range txs {
		flows, err := storage.EncodeAssetFlows(tx.AssetFlows)
		if err != nil {
			return fmt.Errorf("encode asset flows: %w", err)
		}

		err = batch.Append(
			tx.ID,
			tx.WalletAddress,
			tx.TxHash,
			uint64(tx.BlockHeight),
			uint64(tx.Timestamp),
			string(tx.Action),
			string(tx.Protocol),
			string(flows),
			storage.BigString(tx.NetADAChange),
			storage.BigString(tx.Fees),
			tx.Description,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// ActionCounts returns how many transactions of each action a wallet has.
func (s *WalletHistoryStore) ActionCounts(ctx context.Context, walletAddress string) (map[domain.Action]uint64, error) {
	query := `
		SELECT tx_action, count() AS n
		FROM wallet_history
		WHERE wallet_address = ?
		GROUP BY tx_action
	`

	rows, err := s.conn.Query(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("query action counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Action]uint64)
	for rows.Next() {
		var (
			action string
			n      uint64
		)
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("scan action count: %w", err)
		}
		counts[domain.Action(action)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action counts: %w", err)
	}
	return counts, nil
}
