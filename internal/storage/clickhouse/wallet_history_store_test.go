package clickhouse

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"cardano-wallet-sync/internal/domain"
)

func sampleHistory(wallet string) []*domain.WalletTransaction {
	return []*domain.WalletTransaction{
		{
			ID:            "mplewal-aa11",
			WalletAddress: wallet,
			TxHash:        "aa11",
			BlockHeight:   9_000_001,
			Timestamp:     1_700_000_000,
			Action:        domain.ActionSwap,
			Protocol:      domain.ProtocolMinswap,
			AssetFlows: []*domain.WalletAssetFlow{
				{
					Token:     domain.Lovelace(),
					NetChange: big.NewInt(-50_000_000),
					AmountIn:  big.NewInt(0),
					AmountOut: big.NewInt(50_000_000),
				},
			},
			NetADAChange: big.NewInt(-50_000_000),
			Fees:         big.NewInt(210_000),
			Description:  "[Minswap] Swap ADA → MIN",
		},
		{
			ID:            "mplewal-bb22",
			WalletAddress: wallet,
			TxHash:        "bb22",
			BlockHeight:   9_000_150,
			Timestamp:     1_700_000_600,
			Action:        domain.ActionClaimRewards,
			Protocol:      domain.ProtocolUnknown,
			NetADAChange:  big.NewInt(4_661_774),
			Fees:          big.NewInt(170_000),
			Description:   "Claim Staking Rewards",
		},
		{
			ID:            "mplewal-cc33",
			WalletAddress: wallet,
			TxHash:        "cc33",
			BlockHeight:   9_000_300,
			Timestamp:     1_700_001_200,
			Action:        domain.ActionSwap,
			Protocol:      domain.ProtocolMinswap,
			NetADAChange:  big.NewInt(25_000_000),
			Fees:          big.NewInt(190_000),
			Description:   "[Minswap] Swap MIN → ADA",
		},
	}
}

func TestWalletHistoryStore_InsertBulkAndActionCounts(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletHistoryStore(conn)
	ctx := context.Background()
	wallet := "addr1qxck8m7y0c3mxxd5p2jw8nm3r7k5vqwcrr3nqq4ygw8vqsamplewal"

	require.NoError(t, store.InsertBulk(ctx, sampleHistory(wallet)))

	counts, err := store.ActionCounts(ctx, wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(2), counts[domain.ActionSwap])
	require.Equal(t, uint64(1), counts[domain.ActionClaimRewards])

	// Other wallets are invisible.
	empty, err := store.ActionCounts(ctx, "addr1q9someoneelse")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestWalletHistoryStore_InsertBulkEmpty(t *testing.T) {
	store := NewWalletHistoryStore(nil)
	require.NoError(t, store.InsertBulk(context.Background(), nil))
}
