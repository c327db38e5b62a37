package registry

import (
	"encoding/hex"

	"cardano-wallet-sync/internal/domain"
)

// placeholderLen is how many leading unit characters go into a
// synthesized placeholder name.
const placeholderLen = 8

// maxTickerLen bounds synthesized tickers to a display-friendly size.
const maxTickerLen = 10

// DecodeAssetName decodes a hex asset name into printable ASCII.
// Returns "" when the name is empty, not valid hex, or contains
// non-printable bytes. Receipt tokens typically decode to "".
func DecodeAssetName(assetNameHex string) string {
	if assetNameHex == "" {
		return ""
	}
	raw, err := hex.DecodeString(assetNameHex)
	if err != nil || len(raw) == 0 {
		return ""
	}
	for _, b := range raw {
		if b < 0x20 || b > 0x7e {
			return ""
		}
	}
	return string(raw)
}

// SynthesizeTokenInfo builds a fallback record from the unit's
// structural components alone. It is a pure function of the unit, so
// repeated resolution of an unknown asset stays deterministic.
func SynthesizeTokenInfo(unit string) *domain.TokenInfo {
	if unit == domain.LovelaceUnit {
		return domain.Lovelace()
	}

	policyID, assetName := domain.SplitUnit(unit)
	decoded := DecodeAssetName(assetName)

	name := decoded
	ticker := decoded
	if decoded == "" {
		short := unit
		if len(short) > placeholderLen {
			short = short[:placeholderLen]
		}
		name = "Unknown Token " + short
		ticker = short
	}
	if len(ticker) > maxTickerLen {
		ticker = ticker[:maxTickerLen]
	}

	return &domain.TokenInfo{
		Unit:      unit,
		PolicyID:  policyID,
		AssetName: assetName,
		Name:      name,
		Ticker:    ticker,
		Decimals:  0,
		Category:  domain.CategoryFungible,
		Metadata: map[string]string{
			"source":   "fallback",
			"fallback": "true",
		},
	}
}

// BasicTokenInfo is the pre-resolution shape a flow carries before the
// registry enriches it: raw unit, zero decimals, FUNGIBLE.
func BasicTokenInfo(unit string) *domain.TokenInfo {
	if unit == domain.LovelaceUnit {
		return domain.Lovelace()
	}
	policyID, assetName := domain.SplitUnit(unit)
	return &domain.TokenInfo{
		Unit:      unit,
		PolicyID:  policyID,
		AssetName: assetName,
		Name:      unit,
		Ticker:    "",
		Decimals:  0,
		Category:  domain.CategoryFungible,
	}
}
