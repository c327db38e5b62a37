package categorize

import (
	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/registry"
	"cardano-wallet-sync/internal/wallet"
)

// LendingRule recognizes lending-protocol interactions through receipt
// tokens (qTokens). Receipt tokens are definitive markers: they exist
// only as claims on supplied collateral. Because they are minted with
// empty display names, an auxiliary heuristic also matches
// transactions that merely look like they involve an undiscovered
// receipt token; that heuristic contributes to Matches only, never to
// the action itself.
type LendingRule struct {
	tokens *registry.ProtocolTokens
}

// NewLendingRule creates the lending rule over a protocol-token table.
func NewLendingRule(tokens *registry.ProtocolTokens) *LendingRule {
	return &LendingRule{tokens: tokens}
}

var _ Rule = (*LendingRule)(nil)

// Priority implements Rule.
func (r *LendingRule) Priority() int { return 1 }

// Protocol implements Rule.
func (r *LendingRule) Protocol() domain.Protocol { return domain.ProtocolLiqwid }

// Matches reports a lending interaction: any flow is a known receipt
// token, or the potential-receipt-token heuristic fires.
func (r *LendingRule) Matches(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) bool {
	for _, f := range flows {
		if r.isReceiptToken(f) {
			return true
		}
	}
	return r.potentialReceiptToken(tx, flows)
}

// Action derives the lending action from receipt-token flow direction:
// in only = SUPPLY, out only = WITHDRAW, both = COLLATERALIZE
// (composite rebalancing), neither = UNKNOWN (soft match).
func (r *LendingRule) Action(_ *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Action {
	var in, out bool
	for _, f := range flows {
		if !r.isReceiptToken(f) {
			continue
		}
		if f.IsInflow() {
			in = true
		}
		if f.IsOutflow() {
			out = true
		}
	}

	switch {
	case in && out:
		return domain.ActionCollateralize
	case in:
		return domain.ActionSupply
	case out:
		return domain.ActionWithdraw
	default:
		return domain.ActionUnknown
	}
}

// isReceiptToken checks the resolved category and the protocol table.
func (r *LendingRule) isReceiptToken(f *domain.WalletAssetFlow) bool {
	if f.Token == nil {
		return false
	}
	if f.Token.Category == domain.CategoryQToken {
		return true
	}
	_, ok := r.tokens.QTokenProtocol(f.Token.Unit)
	return ok
}

// potentialReceiptToken is the advisory heuristic for undiscovered
// receipt tokens: an empty decoded asset name, script addresses among
// the transaction's inputs or outputs, and coin movement. Approximate
// by design; it can only soft-match (Action still requires a known
// receipt token to commit).
func (r *LendingRule) potentialReceiptToken(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) bool {
	var emptyName, coinMoved bool
	for _, f := range flows {
		if f.IsNative() {
			if f.NetChange.Sign() != 0 {
				coinMoved = true
			}
			continue
		}
		if f.Token != nil && registry.DecodeAssetName(f.Token.AssetName) == "" {
			emptyName = true
		}
	}
	if !emptyName || !coinMoved {
		return false
	}

	for _, io := range tx.Inputs {
		if wallet.IsScriptAddress(io.Address) {
			return true
		}
	}
	for _, io := range tx.Outputs {
		if wallet.IsScriptAddress(io.Address) {
			return true
		}
	}
	return false
}
