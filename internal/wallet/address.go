// Package wallet provides the default relevance filter and asset-flow
// calculator the parser composes, plus Cardano address helpers.
package wallet

import (
	"strings"

	"github.com/mr-tron/base58"
)

// Shelley bech32 prefixes whose payment credential is a script.
// Header types 1-3 and 7 (script payment part) encode to these first
// data characters after "addr1".
var scriptAddressPrefixes = []string{"addr1w", "addr1x", "addr1z", "addr_test1w", "addr_test1x", "addr_test1z"}

// IsScriptAddress reports whether a Shelley address pays to a script.
// Used as a weak signal when hunting for undiscovered protocol
// receipt tokens.
func IsScriptAddress(address string) bool {
	for _, prefix := range scriptAddressPrefixes {
		if strings.HasPrefix(address, prefix) {
			return true
		}
	}
	return false
}

// IsValidAddress accepts Shelley bech32 addresses (addr1/addr_test1,
// stake1/stake_test1) and legacy Byron base58 addresses (Ae2/DdzFF).
func IsValidAddress(address string) bool {
	if address == "" {
		return false
	}
	if strings.HasPrefix(address, "addr1") || strings.HasPrefix(address, "addr_test1") ||
		strings.HasPrefix(address, "stake1") || strings.HasPrefix(address, "stake_test1") {
		return len(address) > 12
	}
	return isByronAddress(address)
}

// isByronAddress checks the legacy base58 format.
func isByronAddress(address string) bool {
	if !strings.HasPrefix(address, "Ae2") && !strings.HasPrefix(address, "DdzFF") {
		return false
	}
	_, err := base58.Decode(address)
	return err == nil
}
