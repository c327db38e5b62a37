package categorize

import (
	"math/big"
	"testing"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/registry"
)

const minswapLPPolicy = "e4214b7cce62ac6fbba385d164df48e157eae5863521b4b67ca71d86"

func TestMinswapRule_MatchesMetadataMarker(t *testing.T) {
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	tx := &domain.RawTransaction{
		Hash:     "swap1",
		Metadata: map[string]string{"674": "Minswap: Swap Exact In Order"},
	}

	if !rule.Matches(tx, nil) {
		t.Error("expected metadata marker to match")
	}
}

func TestMinswapRule_SwapAction(t *testing.T) {
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(-50_000_000),
		flow("29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e", "MIN", domain.CategoryFungible, 1_000_000_000),
	}
	tx := &domain.RawTransaction{
		Hash:     "swap2",
		Metadata: map[string]string{"674": "minswap order"},
	}

	if action := rule.Action(tx, flows); action != domain.ActionSwap {
		t.Errorf("expected SWAP, got %s", action)
	}
}

func TestMinswapRule_ProvideLiquidity(t *testing.T) {
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(-100_000_000),
		flow("29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e", "MIN", domain.CategoryFungible, -2_000_000_000),
		flow(minswapLPPolicy+"6c70", "ADA-MIN LP", domain.CategoryLPToken, 40_000_000),
	}
	tx := &domain.RawTransaction{Hash: "lp1"}

	if !rule.Matches(tx, flows) {
		t.Fatal("expected LP flow to match")
	}
	if action := rule.Action(tx, flows); action != domain.ActionProvideLiquidity {
		t.Errorf("expected PROVIDE_LIQUIDITY, got %s", action)
	}
}

func TestMinswapRule_RemoveLiquidity(t *testing.T) {
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(100_000_000),
		flow(minswapLPPolicy+"6c70", "ADA-MIN LP", domain.CategoryLPToken, -40_000_000),
	}

	if action := rule.Action(&domain.RawTransaction{Hash: "lp2"}, flows); action != domain.ActionRemoveLiquidity {
		t.Errorf("expected REMOVE_LIQUIDITY, got %s", action)
	}
}

func TestMinswapRule_LPDetectedByPolicyTable(t *testing.T) {
	// Category unresolved, ticker unhelpful: the policy table still
	// identifies the LP share.
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	f := flow(minswapLPPolicy+"6c70", "", domain.CategoryFungible, 10)

	if !rule.Matches(&domain.RawTransaction{Hash: "lp3"}, []*domain.WalletAssetFlow{f}) {
		t.Error("expected policy-table LP match")
	}
}

func TestMinswapRule_CustomDustThreshold(t *testing.T) {
	// With a lower threshold the same native movement becomes a
	// meaningful swap leg.
	rule := NewMinswapRule(registry.NewProtocolTokens(), big.NewInt(100_000))
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(-1_500_000),
		flow("29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e", "MIN", domain.CategoryFungible, 500),
	}
	tx := &domain.RawTransaction{
		Hash:     "swap4",
		Metadata: map[string]string{"674": "minswap"},
	}

	if action := rule.Action(tx, flows); action != domain.ActionSwap {
		t.Errorf("expected SWAP with lowered threshold, got %s", action)
	}
}

func TestMinswapRule_DustNativeNoiseIsNotSwap(t *testing.T) {
	// Fee-sized ADA change alongside a one-direction token move must not
	// read as a swap.
	rule := NewMinswapRule(registry.NewProtocolTokens(), nil)
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(-1_500_000),
		flow("29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e", "MIN", domain.CategoryFungible, 500),
	}
	tx := &domain.RawTransaction{
		Hash:     "swap3",
		Metadata: map[string]string{"674": "minswap"},
	}

	if action := rule.Action(tx, flows); action != domain.ActionUnknown {
		t.Errorf("expected UNKNOWN soft result, got %s", action)
	}
}
