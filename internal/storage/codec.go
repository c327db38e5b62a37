package storage

import (
	"encoding/json"
	"fmt"
	"math/big"

	"cardano-wallet-sync/internal/domain"
)

// assetFlowRecord is the JSON shape for a persisted asset flow.
// Amounts are encoded as decimal strings: lovelace quantities exceed
// the safe integer range of JSON consumers.
type assetFlowRecord struct {
	Unit      string            `json:"unit"`
	PolicyID  string            `json:"policy_id,omitempty"`
	AssetName string            `json:"asset_name,omitempty"`
	Name      string            `json:"name,omitempty"`
	Ticker    string            `json:"ticker,omitempty"`
	Decimals  int               `json:"decimals"`
	Category  string            `json:"category"`
	Logo      string            `json:"logo,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	NetChange string            `json:"net_change"`
	AmountIn  string            `json:"amount_in"`
	AmountOut string            `json:"amount_out"`
}

// EncodeAssetFlows serializes flows for JSONB/JSON columns.
func EncodeAssetFlows(flows []*domain.WalletAssetFlow) ([]byte, error) {
	records := make([]assetFlowRecord, 0, len(flows))
	for _, f := range flows {
		r := assetFlowRecord{
			NetChange: BigString(f.NetChange),
			AmountIn:  BigString(f.AmountIn),
			AmountOut: BigString(f.AmountOut),
		}
		if f.Token != nil {
			r.Unit = f.Token.Unit
			r.PolicyID = f.Token.PolicyID
			r.AssetName = f.Token.AssetName
			r.Name = f.Token.Name
			r.Ticker = f.Token.Ticker
			r.Decimals = f.Token.Decimals
			r.Category = string(f.Token.Category)
			r.Logo = f.Token.Logo
			r.Metadata = f.Token.Metadata
		}
		records = append(records, r)
	}
	return json.Marshal(records)
}

// DecodeAssetFlows deserializes flows from JSONB/JSON columns.
func DecodeAssetFlows(data []byte) ([]*domain.WalletAssetFlow, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var records []assetFlowRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal asset flows: %w", err)
	}

	flows := make([]*domain.WalletAssetFlow, 0, len(records))
	for _, r := range records {
		netChange, err := ParseBig(r.NetChange)
		if err != nil {
			return nil, err
		}
		amountIn, err := ParseBig(r.AmountIn)
		if err != nil {
			return nil, err
		}
		amountOut, err := ParseBig(r.AmountOut)
		if err != nil {
			return nil, err
		}

		flows = append(flows, &domain.WalletAssetFlow{
			Token: &domain.TokenInfo{
				Unit:      r.Unit,
				PolicyID:  r.PolicyID,
				AssetName: r.AssetName,
				Name:      r.Name,
				Ticker:    r.Ticker,
				Decimals:  r.Decimals,
				Category:  domain.TokenCategory(r.Category),
				Logo:      r.Logo,
				Metadata:  r.Metadata,
			},
			NetChange: netChange,
			AmountIn:  amountIn,
			AmountOut: amountOut,
		})
	}
	return flows, nil
}

// ParseBig parses a decimal string into big.Int, treating "" as zero.
func ParseBig(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parse amount %q: %w", s, ErrInvalidInput)
	}
	return v, nil
}

// BigString renders a big.Int as a decimal string, nil-safe.
func BigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
