package registry

import (
	"testing"

	"cardano-wallet-sync/internal/domain"
)

func TestDecodeAssetName(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{"printable ascii", "4d494e", "MIN"},
		{"longer printable", "576f726c644d6f62696c65546f6b656e58", "WorldMobileTokenX"},
		{"empty", "", ""},
		{"not hex", "zzzz", ""},
		{"non-printable bytes", "0001ff", ""},
		{"mixed printable and control", "4d00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeAssetName(tt.hex); got != tt.want {
				t.Errorf("DecodeAssetName(%q) = %q, want %q", tt.hex, got, tt.want)
			}
		})
	}
}

func TestSynthesizeTokenInfo_PrintableName(t *testing.T) {
	unit := "29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c6" + "4d494e"

	token := SynthesizeTokenInfo(unit)

	if token.Name != "MIN" || token.Ticker != "MIN" {
		t.Errorf("expected decoded name/ticker MIN, got %q/%q", token.Name, token.Ticker)
	}
	if token.PolicyID != "29d222ce763455e3d7a09a665ce554f00ac89d2e99a1a83d267170c6" {
		t.Errorf("unexpected policy id %q", token.PolicyID)
	}
	if token.Decimals != 0 || token.Category != domain.CategoryFungible {
		t.Errorf("fallback must default to 0 decimals FUNGIBLE, got %d %s", token.Decimals, token.Category)
	}
	if token.Metadata["fallback"] != "true" {
		t.Error("fallback record must be flagged in metadata")
	}
}

func TestSynthesizeTokenInfo_EmptyAssetName(t *testing.T) {
	// Receipt tokens are minted with empty asset names.
	unit := "a04ce7a52545e5e33c2867e148898d9e667a69602285f6a1298f9d68"

	token := SynthesizeTokenInfo(unit)

	if token.Ticker != "a04ce7a5" {
		t.Errorf("expected truncated-unit ticker, got %q", token.Ticker)
	}
	if token.Name != "Unknown Token a04ce7a5" {
		t.Errorf("unexpected placeholder name %q", token.Name)
	}
}

func TestSynthesizeTokenInfo_Deterministic(t *testing.T) {
	unit := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef" + "ff00"

	a := SynthesizeTokenInfo(unit)
	b := SynthesizeTokenInfo(unit)

	if a.Name != b.Name || a.Ticker != b.Ticker || a.Category != b.Category {
		t.Errorf("synthesis not deterministic: %+v vs %+v", a, b)
	}
}

func TestSynthesizeTokenInfo_Lovelace(t *testing.T) {
	token := SynthesizeTokenInfo(domain.LovelaceUnit)

	if token.Ticker != "ADA" || token.Decimals != 6 || token.Category != domain.CategoryNative {
		t.Errorf("unexpected lovelace record %+v", token)
	}
}
