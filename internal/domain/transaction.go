package domain

import "math/big"

// Action is the semantic classification of a wallet transaction.
type Action string

// Actions, in rough order of specificity.
const (
	ActionSwap             Action = "SWAP"
	ActionSupply           Action = "SUPPLY"
	ActionWithdraw         Action = "WITHDRAW"
	ActionCollateralize    Action = "COLLATERALIZE"
	ActionProvideLiquidity Action = "PROVIDE_LIQUIDITY"
	ActionRemoveLiquidity  Action = "REMOVE_LIQUIDITY"
	ActionClaimRewards     Action = "CLAIM_REWARDS"
	ActionStake            Action = "STAKE"
	ActionUnstake          Action = "UNSTAKE"
	ActionSend             Action = "SEND"
	ActionReceive          Action = "RECEIVE"
	ActionUnknown          Action = "UNKNOWN"
)

// Protocol identifies a known DeFi protocol a transaction interacted with.
type Protocol string

// Known protocols.
const (
	ProtocolLiqwid  Protocol = "LIQWID"
	ProtocolMinswap Protocol = "MINSWAP"
	ProtocolUnknown Protocol = "UNKNOWN"
)

// WalletTransaction is the pipeline's final output, one per
// (wallet, tx hash) pair. Corresponds to the wallet_transactions table.
// Immutable; re-parsing the same raw transaction with a warm cache
// must yield an identical record.
type WalletTransaction struct {
	ID            string // deterministic: wallet-address suffix + tx hash
	WalletAddress string
	TxHash        string
	BlockHeight   int64
	Timestamp     int64 // Unix seconds, carried from block time

	Action   Action
	Protocol Protocol

	AssetFlows   []*WalletAssetFlow
	NetADAChange *big.Int // lovelace flow's net change, 0 if absent
	Fees         *big.Int // lovelace
	Description  string   // one-line human-readable summary
}
