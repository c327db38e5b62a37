package registry

import (
	"regexp"
	"strings"

	"cardano-wallet-sync/internal/domain"
)

// qTickerPattern matches short q-prefixed lending receipt tickers
// like qADA, qDJED, qMIN.
var qTickerPattern = regexp.MustCompile(`^q[A-Z0-9]{1,9}$`)

// knownStablecoins is the set of stablecoin tickers circulating on
// Cardano plus bridged majors.
var knownStablecoins = map[string]struct{}{
	"DJED": {},
	"IUSD": {},
	"USDA": {},
	"USDM": {},
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// lpMarkers are substrings that identify liquidity-pool share tokens.
var lpMarkers = []string{"lp token", "lp_token", "liquidity pool", "pool share", " lp"}

// governanceMarkers identify governance/DAO tokens.
var governanceMarkers = []string{"governance", "dao ", " dao", "voting"}

// InferCategory guesses a token category from registry metadata.
// Heuristic and best-effort: a wrong guess yields a coarser category,
// never an error.
func InferCategory(name, ticker, description string) domain.TokenCategory {
	lowerName := strings.ToLower(name)
	lowerDesc := strings.ToLower(description)

	for _, marker := range lpMarkers {
		if strings.Contains(lowerName, marker) || strings.Contains(lowerDesc, marker) ||
			strings.HasSuffix(strings.ToUpper(ticker), " LP") || strings.HasSuffix(strings.ToUpper(ticker), "-LP") {
			return domain.CategoryLPToken
		}
	}

	if qTickerPattern.MatchString(ticker) {
		return domain.CategoryQToken
	}

	for _, marker := range governanceMarkers {
		if strings.Contains(lowerName, marker) || strings.Contains(lowerDesc, marker) {
			return domain.CategoryGovernance
		}
	}

	upperTicker := strings.ToUpper(ticker)
	if _, ok := knownStablecoins[upperTicker]; ok {
		return domain.CategoryStablecoin
	}
	upperName := strings.ToUpper(name)
	if _, ok := knownStablecoins[upperName]; ok {
		return domain.CategoryStablecoin
	}
	for stable := range knownStablecoins {
		if strings.Contains(strings.ToUpper(description), stable) &&
			strings.Contains(lowerDesc, "stablecoin") {
			return domain.CategoryStablecoin
		}
	}

	return domain.CategoryFungible
}

// normalizeLogo turns a raw base64 logo payload into a data URL.
// Already-normalized values pass through.
func normalizeLogo(logo string) string {
	if logo == "" || strings.HasPrefix(logo, "data:") {
		return logo
	}
	return "data:image/png;base64," + logo
}
