package idhash

import "testing"

func TestWalletTransactionID_Deterministic(t *testing.T) {
	a := WalletTransactionID("addr1qxy2lpan99fcnhhyabcd", "deadbeef01")
	b := WalletTransactionID("addr1qxy2lpan99fcnhhyabcd", "deadbeef01")

	if a != b {
		t.Errorf("expected identical ids, got %q and %q", a, b)
	}
}

func TestWalletTransactionID_UsesAddressSuffix(t *testing.T) {
	id := WalletTransactionID("addr1qxy2lpan99fcnhhyabcd", "deadbeef01")

	if id != "nhhyabcd-deadbeef01" {
		t.Errorf("unexpected id %q", id)
	}
}

func TestWalletTransactionID_ShortAddress(t *testing.T) {
	// Addresses shorter than the suffix length are used whole.
	id := WalletTransactionID("abc", "deadbeef01")

	if id != "abc-deadbeef01" {
		t.Errorf("unexpected id %q", id)
	}
}

func TestWalletTransactionID_DifferentWalletsDiffer(t *testing.T) {
	a := WalletTransactionID("addr1qxy2lpan99fcnhhyabcd", "deadbeef01")
	b := WalletTransactionID("addr1qxy2lpan99fcnhhywxyz", "deadbeef01")

	if a == b {
		t.Errorf("expected distinct ids for distinct wallets, both %q", a)
	}
}
