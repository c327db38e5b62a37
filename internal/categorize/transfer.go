package categorize

import (
	"math/big"

	"cardano-wallet-sync/internal/domain"
)

// TransferRule is the always-matching catch-all at the bottom of the
// rule list. It classifies plain sends, receives, and wallet-to-wallet
// swaps that no protocol rule claimed.
type TransferRule struct {
	// dust is the "meaningful flow" threshold for native-coin amounts,
	// keeping fee noise from being read as a swap leg.
	dust *big.Int
}

// NewTransferRule creates the catch-all with a configurable dust
// threshold (nil uses DefaultDustLovelace).
func NewTransferRule(dust *big.Int) *TransferRule {
	if dust == nil {
		dust = DefaultDustLovelace
	}
	return &TransferRule{dust: dust}
}

var _ Rule = (*TransferRule)(nil)

// Priority implements Rule.
func (r *TransferRule) Priority() int { return 100 }

// Protocol implements Rule.
func (r *TransferRule) Protocol() domain.Protocol { return domain.ProtocolUnknown }

// Matches always: this is the catch-all.
func (r *TransferRule) Matches(_ *domain.RawTransaction, _ []*domain.WalletAssetFlow) bool {
	return true
}

// Action: pure inflow = RECEIVE, pure outflow = SEND, meaningful
// movement in both directions = SWAP, otherwise UNKNOWN.
func (r *TransferRule) Action(_ *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Action {
	var anyIn, anyOut, meaningfulIn, meaningfulOut bool
	for _, f := range flows {
		if f.IsInflow() {
			anyIn = true
		}
		if f.IsOutflow() {
			anyOut = true
		}
		if meaningfulFlow(f, r.dust) {
			if f.IsInflow() {
				meaningfulIn = true
			}
			if f.IsOutflow() {
				meaningfulOut = true
			}
		}
	}

	switch {
	case anyIn && !anyOut:
		return domain.ActionReceive
	case anyOut && !anyIn:
		return domain.ActionSend
	case meaningfulIn && meaningfulOut:
		return domain.ActionSwap
	default:
		return domain.ActionUnknown
	}
}
