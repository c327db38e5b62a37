package parser

import (
	"fmt"
	"math/big"

	"cardano-wallet-sync/internal/domain"
)

// protocolDisplayNames maps protocol labels to their human form for the
// "[Minswap] Swap ADA → MIN" style prefix.
var protocolDisplayNames = map[domain.Protocol]string{
	domain.ProtocolLiqwid:  "Liqwid",
	domain.ProtocolMinswap: "Minswap",
}

// describe renders the one-line summary from (action, protocol,
// dominant in/out tickers). Unknown actions get a generic "Transaction";
// missing ticker data renders as the literal "Unknown", never an error.
func describe(action domain.Action, protocol domain.Protocol, flows []*domain.WalletAssetFlow) string {
	var body string
	switch action {
	case domain.ActionSwap:
		body = fmt.Sprintf("Swap %s → %s", dominantTicker(flows, false, false), dominantTicker(flows, true, false))
	case domain.ActionSupply:
		body = "Supply " + dominantTicker(flows, false, true)
	case domain.ActionWithdraw:
		body = "Withdraw " + dominantTicker(flows, true, true)
	case domain.ActionCollateralize:
		body = "Adjust Collateral"
	case domain.ActionProvideLiquidity:
		body = "Provide Liquidity"
	case domain.ActionRemoveLiquidity:
		body = "Remove Liquidity"
	case domain.ActionClaimRewards:
		body = "Claim Staking Rewards"
	case domain.ActionStake:
		body = "Delegate Stake"
	case domain.ActionUnstake:
		body = "Deregister Stake"
	case domain.ActionSend:
		body = "Send " + dominantTicker(flows, false, false)
	case domain.ActionReceive:
		body = "Receive " + dominantTicker(flows, true, false)
	default:
		body = "Transaction"
	}

	if name, ok := protocolDisplayNames[protocol]; ok {
		return "[" + name + "] " + body
	}
	return body
}

// dominantTicker picks the asset that best represents one direction of
// the transaction: the largest non-native flow in that direction, or
// the native coin when nothing else moved. excludeReceipts drops
// protocol receipt tokens so lending descriptions name the supplied
// asset, not the claim minted for it.
func dominantTicker(flows []*domain.WalletAssetFlow, inflow bool, excludeReceipts bool) string {
	var best *domain.WalletAssetFlow
	var native *domain.WalletAssetFlow
	for _, f := range flows {
		if inflow && !f.IsInflow() || !inflow && !f.IsOutflow() {
			continue
		}
		if f.IsNative() {
			native = f
			continue
		}
		if excludeReceipts && f.Token != nil && f.Token.Category == domain.CategoryQToken {
			continue
		}
		if best == nil || absCmp(f, best) > 0 {
			best = f
		}
	}
	if best == nil {
		best = native
	}
	if best == nil || best.Token == nil || best.Token.Ticker == "" {
		return "Unknown"
	}
	return best.Token.Ticker
}

// absCmp compares two flows by absolute net change.
func absCmp(a, b *domain.WalletAssetFlow) int {
	return new(big.Int).Abs(a.NetChange).Cmp(new(big.Int).Abs(b.NetChange))
}
