package wallet

import (
	"math/big"
	"sort"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/registry"
)

// FlowCalculator turns wallet-owned inputs and outputs into per-unit
// asset flows. Inputs are UTXOs the wallet spent (outflow), outputs are
// UTXOs the wallet received (inflow).
type FlowCalculator struct{}

// NewFlowCalculator creates the per-unit flow calculator.
func NewFlowCalculator() *FlowCalculator {
	return &FlowCalculator{}
}

// CalculateAssetFlows sums, per distinct asset unit, the amounts the
// wallet received and spent, and derives the signed net change. A
// lovelace entry is produced whenever ADA moved at all, even when the
// net is zero, so fee-only transactions stay representable. Exactly one
// entry per unit; flows carry pre-resolution token info for the
// registry to enrich. Output order is deterministic: lovelace first,
// remaining units lexicographic.
func (c *FlowCalculator) CalculateAssetFlows(inputs, outputs []domain.TxIO, walletAddress string) []*domain.WalletAssetFlow {
	type acc struct {
		in  *big.Int
		out *big.Int
	}
	byUnit := make(map[string]*acc)
	get := func(unit string) *acc {
		a, ok := byUnit[unit]
		if !ok {
			a = &acc{in: new(big.Int), out: new(big.Int)}
			byUnit[unit] = a
		}
		return a
	}

	for _, io := range inputs {
		if io.Address != walletAddress {
			continue
		}
		for _, amt := range io.Amounts {
			if amt.Quantity == nil {
				continue
			}
			get(amt.Unit).out.Add(get(amt.Unit).out, amt.Quantity)
		}
	}
	for _, io := range outputs {
		if io.Address != walletAddress {
			continue
		}
		for _, amt := range io.Amounts {
			if amt.Quantity == nil {
				continue
			}
			get(amt.Unit).in.Add(get(amt.Unit).in, amt.Quantity)
		}
	}

	units := make([]string, 0, len(byUnit))
	for unit := range byUnit {
		if unit == domain.LovelaceUnit {
			continue
		}
		units = append(units, unit)
	}
	sort.Strings(units)
	if _, ok := byUnit[domain.LovelaceUnit]; ok {
		units = append([]string{domain.LovelaceUnit}, units...)
	}

	flows := make([]*domain.WalletAssetFlow, 0, len(units))
	for _, unit := range units {
		a := byUnit[unit]
		flows = append(flows, &domain.WalletAssetFlow{
			Token:     registry.BasicTokenInfo(unit),
			NetChange: new(big.Int).Sub(a.in, a.out),
			AmountIn:  a.in,
			AmountOut: a.out,
		})
	}
	return flows
}
