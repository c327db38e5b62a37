// Package categorize assigns a semantic action and protocol label to a
// wallet-relative transaction. Rules are pure computation over already
// resolved in-memory data: no I/O, no blocking, deterministic.
package categorize

import (
	"math/big"
	"sort"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/registry"
)

// DefaultDustLovelace is the catch-all rule's "meaningful flow"
// threshold: native-coin movements at or below it are treated as fee
// noise, not swap legs. Tunable per deployment.
var DefaultDustLovelace = big.NewInt(2_000_000)

// Rule is one pattern in the categorization engine.
//
// Matches claims relevance; Action commits to a classification and is
// consulted only after Matches returns true. A rule may match and
// still return ActionUnknown to pass the transaction to lower-priority
// rules (soft match).
type Rule interface {
	// Priority orders evaluation; lower runs first.
	Priority() int

	// Matches reports whether this rule recognizes the transaction.
	Matches(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) bool

	// Action classifies a matched transaction.
	Action(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Action

	// Protocol is the protocol this rule attributes matches to.
	Protocol() domain.Protocol
}

// DefaultRules returns the built-in rule set in priority order:
// lending (1), Minswap DEX (2), stake rewards (10), catch-all (100).
func DefaultRules(tokens *registry.ProtocolTokens) []Rule {
	if tokens == nil {
		tokens = registry.NewProtocolTokens()
	}
	return []Rule{
		NewLendingRule(tokens),
		NewMinswapRule(tokens, DefaultDustLovelace),
		NewStakeRewardsRule(),
		NewTransferRule(DefaultDustLovelace),
	}
}

// sortRules orders rules by ascending priority. The sort is stable:
// equal priorities keep their injection order.
func sortRules(rules []Rule) []Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return sorted
}
