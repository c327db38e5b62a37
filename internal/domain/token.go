package domain

// LovelaceUnit is the sentinel unit for the Cardano native coin.
const LovelaceUnit = "lovelace"

// PolicyIDLength is the hex length of a Cardano minting policy id (28 bytes).
const PolicyIDLength = 56

// TokenCategory classifies a native asset by its role.
type TokenCategory string

// Token categories.
const (
	CategoryNative     TokenCategory = "NATIVE"
	CategoryFungible   TokenCategory = "FUNGIBLE"
	CategoryLPToken    TokenCategory = "LP_TOKEN"
	CategoryQToken     TokenCategory = "Q_TOKEN"
	CategoryGovernance TokenCategory = "GOVERNANCE"
	CategoryStablecoin TokenCategory = "STABLECOIN"
)

// TokenInfo is the resolved metadata for one on-chain asset unit.
// Corresponds to the token_info table in PostgreSQL. A TokenInfo is
// immutable once cached; the persisted copy is the source of truth
// across sync sessions.
type TokenInfo struct {
	Unit      string            // policy id + hex asset name; "lovelace" for ADA
	PolicyID  string            // first 56 hex chars of Unit
	AssetName string            // remainder of Unit (hex-encoded)
	Name      string            // human-readable name, synthesized if unknown
	Ticker    string            // short display symbol
	Decimals  int               // display scaling factor, >= 0
	Category  TokenCategory     // NATIVE | FUNGIBLE | LP_TOKEN | Q_TOKEN | GOVERNANCE | STABLECOIN
	Logo      string            // data-URL logo, optional
	Metadata  map[string]string // provenance: source, fetched_at, fallback flag
}

// Lovelace returns the fixed TokenInfo for the native coin.
// It is the same record regardless of cache, store or API state.
func Lovelace() *TokenInfo {
	return &TokenInfo{
		Unit:     LovelaceUnit,
		Name:     "Cardano",
		Ticker:   "ADA",
		Decimals: 6,
		Category: CategoryNative,
	}
}

// SplitUnit splits a unit into its policy id and hex asset name.
// Units shorter than a policy id (and "lovelace") have no components.
func SplitUnit(unit string) (policyID, assetName string) {
	if unit == LovelaceUnit || len(unit) < PolicyIDLength {
		return "", ""
	}
	return unit[:PolicyIDLength], unit[PolicyIDLength:]
}
