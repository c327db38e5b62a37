package memory

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// WalletTransactionStore is an in-memory implementation of
// storage.WalletTransactionStore.
type WalletTransactionStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.WalletTransaction
}

// NewWalletTransactionStore creates a new in-memory wallet transaction store.
func NewWalletTransactionStore() *WalletTransactionStore {
	return &WalletTransactionStore{
		byID: make(map[string]*domain.WalletTransaction),
	}
}

var _ storage.WalletTransactionStore = (*WalletTransactionStore)(nil)

// Upsert inserts or replaces a single transaction record.
func (s *WalletTransactionStore) Upsert(_ context.Context, tx *domain.WalletTransaction) error {
	if tx == nil || tx.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[tx.ID] = copyTransaction(tx)
	return nil
}

// UpsertBulk inserts or replaces multiple records.
func (s *WalletTransactionStore) UpsertBulk(ctx context.Context, txs []*domain.WalletTransaction) error {
	for _, tx := range txs {
		if err := s.Upsert(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a record by id. Returns ErrNotFound if not exists.
func (s *WalletTransactionStore) GetByID(_ context.Context, id string) (*domain.WalletTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyTransaction(tx), nil
}

// GetByWallet retrieves all records for a wallet, ordered by
// timestamp DESC then tx hash.
func (s *WalletTransactionStore) GetByWallet(_ context.Context, walletAddress string) ([]*domain.WalletTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.WalletTransaction
	for _, tx := range s.byID {
		if tx.WalletAddress == walletAddress {
			result = append(result, copyTransaction(tx))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		return result[i].TxHash < result[j].TxHash
	})

	return result, nil
}

// copyTransaction deep-copies a record, including big.Int amounts.
func copyTransaction(tx *domain.WalletTransaction) *domain.WalletTransaction {
	txCopy := *tx
	txCopy.NetADAChange = copyBig(tx.NetADAChange)
	txCopy.Fees = copyBig(tx.Fees)

	if tx.AssetFlows != nil {
		txCopy.AssetFlows = make([]*domain.WalletAssetFlow, len(tx.AssetFlows))
		for i, f := range tx.AssetFlows {
			flowCopy := *f
			flowCopy.NetChange = copyBig(f.NetChange)
			flowCopy.AmountIn = copyBig(f.AmountIn)
			flowCopy.AmountOut = copyBig(f.AmountOut)
			if f.Token != nil {
				flowCopy.Token = copyToken(f.Token)
			}
			txCopy.AssetFlows[i] = &flowCopy
		}
	}
	return &txCopy
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
