package wallet

import (
	"cardano-wallet-sync/internal/domain"
)

// FilterResult is the wallet-owned subset of a transaction's inputs and
// outputs. IsRelevant is false when the wallet appears on neither side.
type FilterResult struct {
	IsRelevant bool
	Inputs     []domain.TxIO
	Outputs    []domain.TxIO
}

// RelevanceFilter decides which parts of a raw transaction belong to a
// given wallet by exact address match.
type RelevanceFilter struct{}

// NewRelevanceFilter creates the address-match filter.
func NewRelevanceFilter() *RelevanceFilter {
	return &RelevanceFilter{}
}

// FilterForWallet returns only the inputs and outputs addressed to the
// wallet. A transaction that touches the wallet on neither side is not
// relevant and produces no record downstream.
func (f *RelevanceFilter) FilterForWallet(tx *domain.RawTransaction, walletAddress string) FilterResult {
	var result FilterResult
	for _, io := range tx.Inputs {
		if io.Address == walletAddress {
			result.Inputs = append(result.Inputs, io)
		}
	}
	for _, io := range tx.Outputs {
		if io.Address == walletAddress {
			result.Outputs = append(result.Outputs, io)
		}
	}
	result.IsRelevant = len(result.Inputs) > 0 || len(result.Outputs) > 0
	return result
}
