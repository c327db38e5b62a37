// Package stub provides a fixture-backed chain source for demos and
// tests.
package stub

import (
	"context"
	"math/big"
	"time"

	"cardano-wallet-sync/internal/domain"
)

// StubSource serves fixed in-memory transactions in pages.
// Implements chain.Source.
type StubSource struct {
	txs      []*domain.RawTransaction
	pageSize int
}

// NewStubSource creates a stub source over the given transactions.
func NewStubSource(txs []*domain.RawTransaction, pageSize int) *StubSource {
	if pageSize <= 0 {
		pageSize = 25
	}
	return &StubSource{txs: txs, pageSize: pageSize}
}

// FetchTransactions returns the requested 1-based page, empty past the end.
func (s *StubSource) FetchTransactions(_ context.Context, _ string, page int) ([]*domain.RawTransaction, error) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * s.pageSize
	if start >= len(s.txs) {
		return nil, nil
	}
	end := start + s.pageSize
	if end > len(s.txs) {
		end = len(s.txs)
	}
	return s.txs[start:end], nil
}

// DemoTransactions builds a small wallet history touching the built-in
// rules: a plain receive, a DEX swap, and a reward claim.
func DemoTransactions(walletAddress string) []*domain.RawTransaction {
	now := time.Now().Unix()
	counter := "addr1q9democounterparty0000000000000000000000000000000000"
	minUnit := "29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e"

	return []*domain.RawTransaction{
		{
			Hash:        "d1000000000000000000000000000000000000000000000000000000000001",
			BlockHeight: 10_000_001,
			BlockTime:   now - 3600,
			Fee:         big.NewInt(170_000),
			Inputs:      []domain.TxIO{{Address: counter, Amounts: []domain.TxAmount{{Unit: domain.LovelaceUnit, Quantity: big.NewInt(25_170_000)}}}},
			Outputs:     []domain.TxIO{{Address: walletAddress, Amounts: []domain.TxAmount{{Unit: domain.LovelaceUnit, Quantity: big.NewInt(25_000_000)}}}},
		},
		{
			Hash:        "d1000000000000000000000000000000000000000000000000000000000002",
			BlockHeight: 10_000_150,
			BlockTime:   now - 2400,
			Fee:         big.NewInt(210_000),
			Metadata:    map[string]string{"674": "Minswap: Swap Exact In"},
			Inputs:      []domain.TxIO{{Address: walletAddress, Amounts: []domain.TxAmount{{Unit: domain.LovelaceUnit, Quantity: big.NewInt(50_000_000)}}}},
			Outputs: []domain.TxIO{
				{Address: walletAddress, Amounts: []domain.TxAmount{
					{Unit: domain.LovelaceUnit, Quantity: big.NewInt(2_500_000)},
					{Unit: minUnit, Quantity: big.NewInt(1_250_000_000)},
				}},
			},
		},
		{
			Hash:        "d1000000000000000000000000000000000000000000000000000000000003",
			BlockHeight: 10_000_400,
			BlockTime:   now - 1200,
			Fee:         big.NewInt(180_000),
			Withdrawals: []domain.Withdrawal{{Address: "stake1u9demo", Amount: big.NewInt(3_400_000)}},
			Inputs:      []domain.TxIO{{Address: walletAddress, Amounts: []domain.TxAmount{{Unit: domain.LovelaceUnit, Quantity: big.NewInt(2_000_000)}}}},
			Outputs:     []domain.TxIO{{Address: walletAddress, Amounts: []domain.TxAmount{{Unit: domain.LovelaceUnit, Quantity: big.NewInt(5_220_000)}}}},
		},
	}
}
