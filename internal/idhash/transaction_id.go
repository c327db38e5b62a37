package idhash

// walletSuffixLen is how many trailing address characters go into the id.
// The suffix keeps ids short for storage; combined with the tx hash the
// collision probability across wallets is negligible.
const walletSuffixLen = 8

// WalletTransactionID computes the deterministic id for a
// (wallet, transaction) pair.
// Formula: last 8 characters of the wallet address + "-" + tx hash.
func WalletTransactionID(walletAddress, txHash string) string {
	suffix := walletAddress
	if len(suffix) > walletSuffixLen {
		suffix = suffix[len(suffix)-walletSuffixLen:]
	}
	return suffix + "-" + txHash
}
