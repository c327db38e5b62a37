package categorize

import (
	"log"
	"strings"

	"cardano-wallet-sync/internal/domain"
)

// Engine evaluates rules in ascending priority order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine from an injected rule list. Passing no
// rules is a programming error surfaced as an empty engine that
// categorizes everything UNKNOWN; use DefaultRules for the built-ins.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: sortRules(rules)}
}

// Categorize returns the action of the first rule that matches AND
// commits to a non-UNKNOWN action. A matching rule returning UNKNOWN
// does not block lower-priority rules. When no rule commits, the
// transaction is a categorization gap: logged for review, returned as
// UNKNOWN, never an error.
func (e *Engine) Categorize(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Action {
	for _, rule := range e.rules {
		if !rule.Matches(tx, flows) {
			continue
		}
		if action := rule.Action(tx, flows); action != domain.ActionUnknown {
			return action
		}
	}

	log.Printf("[WARN] categorization gap: tx=%s flows=%s withdrawals=%d certs=%d",
		tx.Hash, summarizeFlows(flows), len(tx.Withdrawals), len(tx.Certificates))
	return domain.ActionUnknown
}

// DetectProtocol returns the protocol of the first matching rule whose
// protocol is not UNKNOWN. Independent of action categorization: a
// transaction can carry a protocol label even when its action stays
// UNKNOWN.
func (e *Engine) DetectProtocol(tx *domain.RawTransaction, flows []*domain.WalletAssetFlow) domain.Protocol {
	for _, rule := range e.rules {
		if rule.Protocol() == domain.ProtocolUnknown {
			continue
		}
		if rule.Matches(tx, flows) {
			return rule.Protocol()
		}
	}
	return domain.ProtocolUnknown
}

// summarizeFlows renders flows compactly for gap logs.
func summarizeFlows(flows []*domain.WalletAssetFlow) string {
	if len(flows) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(flows))
	for _, f := range flows {
		label := "?"
		if f.Token != nil {
			label = f.Token.Ticker
			if label == "" {
				label = f.Token.Unit
			}
		}
		parts = append(parts, label+":"+f.NetChange.String())
	}
	return strings.Join(parts, ",")
}
