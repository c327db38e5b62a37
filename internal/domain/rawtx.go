package domain

import "math/big"

// TxAmount is one asset quantity inside a transaction input or output.
type TxAmount struct {
	Unit     string   // "lovelace" or policy id + hex asset name
	Quantity *big.Int // smallest-unit quantity, >= 0
}

// TxIO is one transaction input or output: an address plus the assets
// it carries.
type TxIO struct {
	Address string
	Amounts []TxAmount
}

// Withdrawal is a reward-account withdrawal attached to a transaction.
type Withdrawal struct {
	Address string   // stake (reward) address
	Amount  *big.Int // lovelace withdrawn
}

// Certificate types observed on transactions.
const (
	CertStakeRegistration   = "stake_registration"
	CertStakeDeregistration = "stake_deregistration"
	CertStakeDelegation     = "stake_delegation"
)

// Certificate is an on-chain certificate attached to a transaction.
type Certificate struct {
	Type   string // one of the Cert* constants, or a protocol-specific type
	PoolID string // delegation target, when applicable
}

// RawTransaction is a block-confirmed transaction as supplied by the
// upstream chain source. The pipeline treats it as read-only.
type RawTransaction struct {
	Hash        string
	BlockHeight int64
	BlockTime   int64    // Unix seconds, from the containing block
	Fee         *big.Int // lovelace

	Inputs  []TxIO
	Outputs []TxIO

	Metadata     map[string]string // tx metadata by label, optional
	Withdrawals  []Withdrawal      // optional
	Certificates []Certificate     // optional
}
