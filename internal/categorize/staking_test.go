package categorize

import (
	"math/big"
	"testing"

	"cardano-wallet-sync/internal/domain"
)

func TestStakeRewardsRule_WithdrawalIsClaim(t *testing.T) {
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{
		Hash: "claim1",
		Withdrawals: []domain.Withdrawal{
			{Address: "stake1uxsampleaddr", Amount: big.NewInt(4_831_774)},
		},
	}
	flows := []*domain.WalletAssetFlow{lovelaceFlow(4_661_774)}

	if !rule.Matches(tx, flows) {
		t.Fatal("expected withdrawal to match")
	}
	if action := rule.Action(tx, flows); action != domain.ActionClaimRewards {
		t.Errorf("expected CLAIM_REWARDS, got %s", action)
	}
}

func TestStakeRewardsRule_DelegationIsStake(t *testing.T) {
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{
		Hash:         "delegate1",
		Certificates: []domain.Certificate{{Type: domain.CertStakeDelegation}},
	}

	if action := rule.Action(tx, nil); action != domain.ActionStake {
		t.Errorf("expected STAKE, got %s", action)
	}
}

func TestStakeRewardsRule_RegistrationIsStake(t *testing.T) {
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{
		Hash:         "register1",
		Certificates: []domain.Certificate{{Type: domain.CertStakeRegistration}},
	}

	if action := rule.Action(tx, nil); action != domain.ActionStake {
		t.Errorf("expected STAKE, got %s", action)
	}
}

func TestStakeRewardsRule_DeregistrationIsUnstake(t *testing.T) {
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{
		Hash:         "deregister1",
		Certificates: []domain.Certificate{{Type: domain.CertStakeDeregistration}},
	}

	if action := rule.Action(tx, nil); action != domain.ActionUnstake {
		t.Errorf("expected UNSTAKE, got %s", action)
	}
}

func TestStakeRewardsRule_PureADAInflowSoftMatches(t *testing.T) {
	// No withdrawal record: the rule recognizes the shape but leaves
	// classification to the catch-all.
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{Hash: "inflow1"}
	flows := []*domain.WalletAssetFlow{lovelaceFlow(12_000_000)}

	if !rule.Matches(tx, flows) {
		t.Fatal("expected pure ADA inflow to soft-match")
	}
	if action := rule.Action(tx, flows); action != domain.ActionUnknown {
		t.Errorf("expected UNKNOWN soft result, got %s", action)
	}
}

func TestStakeRewardsRule_MultiAssetInflowDoesNotMatch(t *testing.T) {
	rule := NewStakeRewardsRule()
	tx := &domain.RawTransaction{Hash: "inflow2"}
	flows := []*domain.WalletAssetFlow{
		lovelaceFlow(2_000_000),
		flow("29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c64d494e", "MIN", domain.CategoryFungible, 100),
	}

	if rule.Matches(tx, flows) {
		t.Error("multi-asset inflow must not match the staking heuristic")
	}
}
