package chain

import (
	"fmt"
	"math/big"

	"cardano-wallet-sync/internal/domain"
)

// Wire shapes shared by the HTTP source and the websocket follower.

type txEnvelope struct {
	Hash         string            `json:"tx_hash"`
	BlockHeight  int64             `json:"block_height"`
	BlockTime    int64             `json:"block_time"`
	Fee          string            `json:"fee"`
	Inputs       []txIOEnvelope    `json:"inputs"`
	Outputs      []txIOEnvelope    `json:"outputs"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Withdrawals  []withdrawalWire  `json:"withdrawals,omitempty"`
	Certificates []certificateWire `json:"certificates,omitempty"`
}

type txIOEnvelope struct {
	Address string       `json:"address"`
	Amounts []amountWire `json:"amount"`
}

type amountWire struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type withdrawalWire struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type certificateWire struct {
	Type   string `json:"cert_type"`
	PoolID string `json:"pool_id,omitempty"`
}

// decodeTransaction maps a wire envelope to the domain shape. Amounts
// arrive as decimal strings because lovelace quantities overflow
// float64-backed JSON numbers.
func decodeTransaction(env *txEnvelope) (*domain.RawTransaction, error) {
	if env.Hash == "" {
		return nil, fmt.Errorf("transaction without hash")
	}

	tx := &domain.RawTransaction{
		Hash:        env.Hash,
		BlockHeight: env.BlockHeight,
		BlockTime:   env.BlockTime,
		Metadata:    env.Metadata,
	}

	var err error
	if tx.Fee, err = parseQuantity(env.Fee); err != nil {
		return nil, fmt.Errorf("tx %s: fee: %w", env.Hash, err)
	}
	if tx.Inputs, err = decodeIOs(env.Inputs); err != nil {
		return nil, fmt.Errorf("tx %s: inputs: %w", env.Hash, err)
	}
	if tx.Outputs, err = decodeIOs(env.Outputs); err != nil {
		return nil, fmt.Errorf("tx %s: outputs: %w", env.Hash, err)
	}

	for _, w := range env.Withdrawals {
		amount, err := parseQuantity(w.Amount)
		if err != nil {
			return nil, fmt.Errorf("tx %s: withdrawal: %w", env.Hash, err)
		}
		tx.Withdrawals = append(tx.Withdrawals, domain.Withdrawal{Address: w.Address, Amount: amount})
	}
	for _, c := range env.Certificates {
		tx.Certificates = append(tx.Certificates, domain.Certificate{Type: c.Type, PoolID: c.PoolID})
	}

	return tx, nil
}

func decodeIOs(envs []txIOEnvelope) ([]domain.TxIO, error) {
	ios := make([]domain.TxIO, 0, len(envs))
	for _, env := range envs {
		io := domain.TxIO{Address: env.Address}
		for _, a := range env.Amounts {
			quantity, err := parseQuantity(a.Quantity)
			if err != nil {
				return nil, fmt.Errorf("unit %s: %w", a.Unit, err)
			}
			io.Amounts = append(io.Amounts, domain.TxAmount{Unit: a.Unit, Quantity: quantity})
		}
		ios = append(ios, io)
	}
	return ios, nil
}

func parseQuantity(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	q, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed quantity %q", s)
	}
	return q, nil
}
