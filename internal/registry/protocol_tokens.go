package registry

import (
	"sync"

	"cardano-wallet-sync/internal/domain"
)

// ProtocolTokens is a lookup table of asset units and minting policies
// known to belong to DeFi protocols: lending receipt tokens (qTokens)
// and DEX LP tokens. Receipt tokens are minted with empty on-chain
// asset names, so the policy id is the only reliable marker.
type ProtocolTokens struct {
	mu             sync.RWMutex
	qTokenPolicies map[string]domain.Protocol // policy id -> protocol
	lpPolicies     map[string]domain.Protocol // policy id -> protocol
}

// NewProtocolTokens creates a table preloaded with the known mainnet
// policies. Callers may register more at construction time.
func NewProtocolTokens() *ProtocolTokens {
	t := &ProtocolTokens{
		qTokenPolicies: make(map[string]domain.Protocol),
		lpPolicies:     make(map[string]domain.Protocol),
	}

	// Liqwid qToken market policies.
	t.qTokenPolicies["a04ce7a52545e5e33c2867e148898d9e667a69602285f6a1298f9d68"] = domain.ProtocolLiqwid
	t.qTokenPolicies["da8c30857834c6ae7203935b89278c532b3995245295456f993e1d24"] = domain.ProtocolLiqwid

	// Minswap LP share policies (V1 and V2 pools).
	t.lpPolicies["e4214b7cce62ac6fbba385d164df48e157eae5863521b4b67ca71d86"] = domain.ProtocolMinswap
	t.lpPolicies["f5808c2c990d86da54bfc97d89cee6efa20cd8461616359478d96b4c"] = domain.ProtocolMinswap

	return t
}

// RegisterQToken marks a minting policy as a lending receipt token.
func (t *ProtocolTokens) RegisterQToken(policyID string, protocol domain.Protocol) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.qTokenPolicies[policyID] = protocol
}

// RegisterLPToken marks a minting policy as a DEX LP share token.
func (t *ProtocolTokens) RegisterLPToken(policyID string, protocol domain.Protocol) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lpPolicies[policyID] = protocol
}

// QTokenProtocol reports whether the unit is a known receipt token and
// which protocol minted it.
func (t *ProtocolTokens) QTokenProtocol(unit string) (domain.Protocol, bool) {
	policyID, _ := domain.SplitUnit(unit)
	if policyID == "" {
		return domain.ProtocolUnknown, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.qTokenPolicies[policyID]
	return p, ok
}

// LPTokenProtocol reports whether the unit is a known LP share token
// and which DEX minted it.
func (t *ProtocolTokens) LPTokenProtocol(unit string) (domain.Protocol, bool) {
	policyID, _ := domain.SplitUnit(unit)
	if policyID == "" {
		return domain.ProtocolUnknown, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.lpPolicies[policyID]
	return p, ok
}

// Known reports whether the unit belongs to any registered protocol.
func (t *ProtocolTokens) Known(unit string) bool {
	if _, ok := t.QTokenProtocol(unit); ok {
		return true
	}
	_, ok := t.LPTokenProtocol(unit)
	return ok
}

// Category returns the token category implied by the table, if any.
func (t *ProtocolTokens) Category(unit string) (domain.TokenCategory, bool) {
	if _, ok := t.QTokenProtocol(unit); ok {
		return domain.CategoryQToken, true
	}
	if _, ok := t.LPTokenProtocol(unit); ok {
		return domain.CategoryLPToken, true
	}
	return "", false
}
