package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// WalletTransactionStore implements storage.WalletTransactionStore
// using PostgreSQL.
type WalletTransactionStore struct {
	pool *Pool
}

// NewWalletTransactionStore creates a new WalletTransactionStore.
func NewWalletTransactionStore(pool *Pool) *WalletTransactionStore {
	return &WalletTransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletTransactionStore = (*WalletTransactionStore)(nil)

const upsertWalletTransactionQuery = `
	INSERT INTO wallet_transactions (
		id, wallet_address, tx_hash, block_height, tx_timestamp,
		tx_action, tx_protocol, asset_flows, net_ada_change, fees, description
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		tx_action = EXCLUDED.tx_action,
		tx_protocol = EXCLUDED.tx_protocol,
		asset_flows = EXCLUDED.asset_flows,
		net_ada_change = EXCLUDED.net_ada_change,
		fees = EXCLUDED.fees,
		description = EXCLUDED.description
`

// Upsert inserts or replaces a single transaction record.
func (s *WalletTransactionStore) Upsert(ctx context.Context, tx *domain.WalletTransaction) error {
	if tx == nil || tx.ID == "" {
		return storage.ErrInvalidInput
	}

	flows, err := storage.EncodeAssetFlows(tx.AssetFlows)
	if err != nil {
		return fmt.Errorf("encode asset flows: %w", err)
	}

	_, err = s.pool.Exec(ctx, upsertWalletTransactionQuery,
		tx.ID,
		tx.WalletAddress,
		tx.TxHash,
		tx.BlockHeight,
		tx.Timestamp,
		string(tx.Action),
		string(tx.Protocol),
		flows,
		storage.BigString(tx.NetADAChange),
		storage.BigString(tx.Fees),
		tx.Description,
	)
	if err != nil {
		return fmt.Errorf("upsert wallet transaction: %w", err)
	}
	return nil
}

// UpsertBulk inserts or replaces multiple records in one transaction.
func (s *WalletTransactionStore) UpsertBulk(ctx context.Context, txs []*domain.WalletTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, tx := range txs {
		if tx == nil || tx.ID == "" {
			return storage.ErrInvalidInput
		}

		flows, err := storage.EncodeAssetFlows(tx.AssetFlows)
		if err != nil {
			return fmt.Errorf("encode asset flows: %w", err)
		}

		_, err = dbTx.Exec(ctx, upsertWalletTransactionQuery,
			tx.ID,
			tx.WalletAddress,
			tx.TxHash,
			tx.BlockHeight,
			tx.Timestamp,
			string(tx.Action),
			string(tx.Protocol),
			flows,
			storage.BigString(tx.NetADAChange),
			storage.BigString(tx.Fees),
			tx.Description,
		)
		if err != nil {
			return fmt.Errorf("upsert wallet transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
func (s *WalletTransactionStore) GetByID(ctx context.Context, id string) (*domain.WalletTransaction, error) {
	query := `
		SELECT id, wallet_address, tx_hash, block_height, tx_timestamp,
		       tx_action, tx_protocol, asset_flows, net_ada_change, fees, description
		FROM wallet_transactions
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	tx, err := scanWalletTransaction(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet transaction by id: %w", err)
	}
	return tx, nil
}

// GetByWallet retrieves all records for a wallet, newest first.
func (s *WalletTransactionStore) GetByWallet(ctx context.Context, walletAddress string) ([]*domain.WalletTransaction, error) {
	query := `
		SELECT id, wallet_address, tx_hash, block_height, tx_timestamp,
		       tx_action, tx_protocol, asset_flows, net_ada_change, fees, description
		FROM wallet_transactions
		WHERE wallet_address = $1
		ORDER BY tx_timestamp DESC, tx_hash ASC
	`

	rows, err := s.pool.Query(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("get wallet transactions: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletTransaction
	for rows.Next() {
		tx, err := scanWalletTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transaction rows: %w", err)
	}
	return result, nil
}

// scanWalletTransaction scans a single row into WalletTransaction.
func scanWalletTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	var (
		tx           domain.WalletTransaction
		action       string
		protocol     string
		flowsJSON    []byte
		netADAChange string
		fees         string
	)

	err := row.Scan(
		&tx.ID,
		&tx.WalletAddress,
		&tx.TxHash,
		&tx.BlockHeight,
		&tx.Timestamp,
		&action,
		&protocol,
		&flowsJSON,
		&netADAChange,
		&fees,
		&tx.Description,
	)
	if err != nil {
		return nil, err
	}

	tx.Action = domain.Action(action)
	tx.Protocol = domain.Protocol(protocol)

	tx.AssetFlows, err = storage.DecodeAssetFlows(flowsJSON)
	if err != nil {
		return nil, err
	}
	tx.NetADAChange, err = storage.ParseBig(netADAChange)
	if err != nil {
		return nil, err
	}
	tx.Fees, err = storage.ParseBig(fees)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}
