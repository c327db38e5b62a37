package categorize

import (
	"math/big"
	"strings"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/registry"
)

// MinswapRule recognizes Minswap DEX interactions via transaction
// metadata markers and LP share tokens.
type MinswapRule struct {
	tokens *registry.ProtocolTokens
	dust   *big.Int
}

// NewMinswapRule creates the Minswap rule over a protocol-token table
// with a configurable dust threshold (nil uses DefaultDustLovelace).
func NewMinswapRule(tokens *registry.ProtocolTokens, dust *big.Int) *MinswapRule {
	if dust == nil {
		dust = DefaultDustLovelace
	}
	return &MinswapRule{tokens: tokens, dust: dust}
}

var _ Rule = (*MinswapRule)(nil)

// Priority implements Rule.
func (r *MinswapRule) Priority() int { return 2 }

// Protocol implements Rule.
func (r *MinswapRule) Protocol() domain.Protocol { return domain.ProtocolMinswap }

// Matches looks for Minswap markers in metadata (wallets attach a
// CIP-20 message on order submission) or a Minswap LP token among the
// flows.
func (r *MinswapRule) Matches(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) bool {
	for _, value := range tx.Metadata {
		if strings.Contains(strings.ToLower(value), "minswap") {
			return true
		}
	}
	for _, f := range flows {
		if r.isLPToken(f) {
			return true
		}
	}
	return false
}

// Action derives the DEX action: LP inflow = PROVIDE_LIQUIDITY, LP
// outflow = REMOVE_LIQUIDITY, otherwise a swap when non-native assets
// moved in both directions (ignoring fee-sized native noise).
func (r *MinswapRule) Action(_ *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Action {
	return dexAction(flows, r.isLPToken, r.dust)
}

// isLPToken checks the resolved category, the protocol table, and the
// ticker convention for LP shares.
func (r *MinswapRule) isLPToken(f *domain.WalletAssetFlow) bool {
	if f.Token == nil {
		return false
	}
	if f.Token.Category == domain.CategoryLPToken {
		return true
	}
	if _, ok := r.tokens.LPTokenProtocol(f.Token.Unit); ok {
		return true
	}
	upper := strings.ToUpper(f.Token.Ticker)
	return strings.HasSuffix(upper, " LP") || strings.HasSuffix(upper, "-LP")
}

// dexAction is the action derivation shared by all DEX rules.
func dexAction(flows []*domain.WalletAssetFlow, isLP func(*domain.WalletAssetFlow) bool, dust *big.Int) domain.Action {
	for _, f := range flows {
		if !isLP(f) {
			continue
		}
		if f.IsInflow() {
			return domain.ActionProvideLiquidity
		}
		if f.IsOutflow() {
			return domain.ActionRemoveLiquidity
		}
	}

	var in, out bool
	for _, f := range flows {
		if !meaningfulFlow(f, dust) {
			continue
		}
		if f.IsInflow() {
			in = true
		}
		if f.IsOutflow() {
			out = true
		}
	}
	if in && out {
		return domain.ActionSwap
	}
	return domain.ActionUnknown
}

// meaningfulFlow filters fee-sized native-coin noise: a native flow
// counts only above the dust threshold, any non-native flow counts.
func meaningfulFlow(f *domain.WalletAssetFlow, dust *big.Int) bool {
	if f.NetChange == nil || f.NetChange.Sign() == 0 {
		return false
	}
	if !f.IsNative() {
		return true
	}
	abs := new(big.Int).Abs(f.NetChange)
	return abs.Cmp(dust) > 0
}
