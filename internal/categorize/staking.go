package categorize

import (
	"cardano-wallet-sync/internal/domain"
)

// StakeRewardsRule recognizes staking activity: reward withdrawals,
// delegation lifecycle certificates, and the heuristic case of a pure
// ADA inflow with no explicit withdrawal record.
type StakeRewardsRule struct{}

// NewStakeRewardsRule creates the stake-rewards rule.
func NewStakeRewardsRule() *StakeRewardsRule {
	return &StakeRewardsRule{}
}

var _ Rule = (*StakeRewardsRule)(nil)

// Priority implements Rule.
func (r *StakeRewardsRule) Priority() int { return 10 }

// Protocol implements Rule. Staking is a chain primitive, not a
// protocol interaction.
func (r *StakeRewardsRule) Protocol() domain.Protocol { return domain.ProtocolUnknown }

// Matches fires on withdrawals, certificates, or a pure-ADA pure-inflow
// single-asset transaction (reward arriving without an explicit
// withdrawal record).
func (r *StakeRewardsRule) Matches(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) bool {
	if len(tx.Withdrawals) > 0 || len(tx.Certificates) > 0 {
		return true
	}
	return pureADAInflow(flows)
}

// Action: withdrawal records are definitive; certificates decide
// between STAKE and UNSTAKE; the heuristic inflow case stays UNKNOWN
// so lower-priority rules can classify it as a plain receive.
func (r *StakeRewardsRule) Action(tx *domain.RawTransaction, _ []*domain.WalletAssetFlow) domain.Action {
	if len(tx.Withdrawals) > 0 {
		return domain.ActionClaimRewards
	}
	for _, cert := range tx.Certificates {
		switch cert.Type {
		case domain.CertStakeDelegation, domain.CertStakeRegistration:
			return domain.ActionStake
		case domain.CertStakeDeregistration:
			return domain.ActionUnstake
		}
	}
	return domain.ActionUnknown
}

// pureADAInflow reports a single lovelace flow with positive net change.
func pureADAInflow(flows []*domain.WalletAssetFlow) bool {
	if len(flows) != 1 {
		return false
	}
	f := flows[0]
	return f.IsNative() && f.IsInflow()
}
