package domain

import (
	"errors"
	"math/big"
)

// WalletAssetFlow is one asset's net movement within a transaction,
// relative to one wallet. Amounts are in the asset's smallest unit.
// Computed fresh per transaction; immutable; never persisted outside
// its parent WalletTransaction.
type WalletAssetFlow struct {
	Token     *TokenInfo // resolved metadata (may be basic until enrichment)
	NetChange *big.Int   // positive = net inflow to the wallet
	AmountIn  *big.Int   // gross inflow, >= 0
	AmountOut *big.Int   // gross outflow, >= 0
}

// ErrFlowInvariant is returned when NetChange != AmountIn - AmountOut
// or a gross amount is negative.
var ErrFlowInvariant = errors.New("asset flow invariant violated")

// Validate checks the flow invariant: NetChange == AmountIn - AmountOut,
// AmountIn >= 0, AmountOut >= 0.
func (f *WalletAssetFlow) Validate() error {
	if f.AmountIn == nil || f.AmountOut == nil || f.NetChange == nil {
		return ErrFlowInvariant
	}
	if f.AmountIn.Sign() < 0 || f.AmountOut.Sign() < 0 {
		return ErrFlowInvariant
	}
	diff := new(big.Int).Sub(f.AmountIn, f.AmountOut)
	if diff.Cmp(f.NetChange) != 0 {
		return ErrFlowInvariant
	}
	return nil
}

// IsInflow reports whether the wallet gained this asset.
func (f *WalletAssetFlow) IsInflow() bool {
	return f.NetChange != nil && f.NetChange.Sign() > 0
}

// IsOutflow reports whether the wallet lost this asset.
func (f *WalletAssetFlow) IsOutflow() bool {
	return f.NetChange != nil && f.NetChange.Sign() < 0
}

// IsNative reports whether the flow moves the native coin.
func (f *WalletAssetFlow) IsNative() bool {
	return f.Token != nil && f.Token.Unit == LovelaceUnit
}
