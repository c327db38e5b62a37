// Package parser orchestrates the wallet transaction pipeline: relevance
// filtering, asset-flow calculation, token resolution, categorization,
// and description rendering, producing one immutable record per
// relevant transaction.
package parser

import (
	"context"
	"errors"
	"log"
	"math/big"

	"github.com/samber/lo"

	"cardano-wallet-sync/internal/categorize"
	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/idhash"
	"cardano-wallet-sync/internal/registry"
	"cardano-wallet-sync/internal/wallet"
)

// RelevanceFilter decides which parts of a transaction belong to a wallet.
type RelevanceFilter interface {
	FilterForWallet(tx *domain.RawTransaction, walletAddress string) wallet.FilterResult
}

// FlowCalculator turns wallet-owned inputs/outputs into per-unit flows.
type FlowCalculator interface {
	CalculateAssetFlows(inputs, outputs []domain.TxIO, walletAddress string) []*domain.WalletAssetFlow
}

// TokenResolver resolves asset units to token metadata. Resolution never
// fails: unknown units come back as synthesized records.
type TokenResolver interface {
	GetTokenInfo(ctx context.Context, unit string) *domain.TokenInfo
	BatchGetTokenInfo(ctx context.Context, units []string) map[string]*domain.TokenInfo
	Has(unit string) bool
}

// Parser composes the pipeline stages. All collaborators are injected;
// Filter, Flows, and Engine have working defaults.
type Parser struct {
	filter RelevanceFilter
	flows  FlowCalculator
	tokens TokenResolver
	engine *categorize.Engine
}

// Options configures a Parser. Tokens is required.
type Options struct {
	Filter RelevanceFilter
	Flows  FlowCalculator
	Tokens TokenResolver
	Engine *categorize.Engine
}

// New creates a Parser.
func New(opts Options) (*Parser, error) {
	if opts.Tokens == nil {
		return nil, errors.New("parser: token resolver is required")
	}
	p := &Parser{
		filter: opts.Filter,
		flows:  opts.Flows,
		tokens: opts.Tokens,
		engine: opts.Engine,
	}
	if p.filter == nil {
		p.filter = wallet.NewRelevanceFilter()
	}
	if p.flows == nil {
		p.flows = wallet.NewFlowCalculator()
	}
	if p.engine == nil {
		p.engine = categorize.NewEngine(categorize.DefaultRules(nil))
	}
	return p, nil
}

// ParseTransaction converts one raw transaction into a wallet record.
// A transaction the wallet is not involved in returns (nil, nil) -- the
// only legitimate skip. Every other data-quality problem degrades
// (fallback tokens, UNKNOWN action) instead of failing; an error return
// means a broken collaborator contract, not bad chain data.
func (p *Parser) ParseTransaction(ctx context.Context, rawTx *domain.RawTransaction, walletAddress string) (*domain.WalletTransaction, error) {
	if rawTx == nil {
		return nil, errors.New("parser: nil raw transaction")
	}

	filtered := p.filter.FilterForWallet(rawTx, walletAddress)
	if !filtered.IsRelevant {
		return nil, nil
	}

	flows := p.flows.CalculateAssetFlows(filtered.Inputs, filtered.Outputs, walletAddress)
	for _, f := range flows {
		if f.Token == nil {
			return nil, errors.New("parser: flow calculator produced a flow without token info")
		}
		if resolved := p.tokens.GetTokenInfo(ctx, f.Token.Unit); resolved != nil {
			f.Token = resolved
		}
	}

	action := p.engine.Categorize(rawTx, flows)
	protocol := p.engine.DetectProtocol(rawTx, flows)

	netADA := big.NewInt(0)
	for _, f := range flows {
		if f.IsNative() {
			netADA = f.NetChange
			break
		}
	}
	fees := rawTx.Fee
	if fees == nil {
		fees = big.NewInt(0)
	}

	return &domain.WalletTransaction{
		ID:            idhash.WalletTransactionID(walletAddress, rawTx.Hash),
		WalletAddress: walletAddress,
		TxHash:        rawTx.Hash,
		BlockHeight:   rawTx.BlockHeight,
		Timestamp:     rawTx.BlockTime,
		Action:        action,
		Protocol:      protocol,
		AssetFlows:    flows,
		NetADAChange:  netADA,
		Fees:          fees,
		Description:   describe(action, protocol, flows),
	}, nil
}

// ParseTransactionBatch parses many transactions with one token
// pre-discovery pass: all distinct undiscovered units across the whole
// batch go into a single batch registry call before any individual
// parse runs. Output preserves input order; irrelevant transactions are
// omitted.
func (p *Parser) ParseTransactionBatch(ctx context.Context, rawTxs []*domain.RawTransaction, walletAddress string) ([]*domain.WalletTransaction, error) {
	p.discoverTokens(ctx, rawTxs)

	parsed := make([]*domain.WalletTransaction, 0, len(rawTxs))
	for _, rawTx := range rawTxs {
		tx, err := p.ParseTransaction(ctx, rawTx, walletAddress)
		if err != nil {
			return nil, err
		}
		if tx == nil {
			continue
		}
		parsed = append(parsed, tx)
	}
	return parsed, nil
}

// discoverTokens collects every asset unit the batch touches and
// resolves the undiscovered ones in one batch call, warming the cache
// for the per-transaction passes.
func (p *Parser) discoverTokens(ctx context.Context, rawTxs []*domain.RawTransaction) {
	var units []string
	collect := func(ios []domain.TxIO) {
		for _, io := range ios {
			for _, amt := range io.Amounts {
				if amt.Unit == domain.LovelaceUnit {
					continue
				}
				units = append(units, amt.Unit)
			}
		}
	}
	for _, rawTx := range rawTxs {
		if rawTx == nil {
			continue
		}
		collect(rawTx.Inputs)
		collect(rawTx.Outputs)
	}

	undiscovered := lo.Filter(lo.Uniq(units), func(unit string, _ int) bool {
		return !p.tokens.Has(unit)
	})
	if len(undiscovered) == 0 {
		return
	}

	for _, unit := range undiscovered {
		_, assetName := domain.SplitUnit(unit)
		if registry.DecodeAssetName(assetName) == "" {
			log.Printf("token discovery: potential undiscovered protocol token %s (empty asset name)", unit)
		}
	}

	p.tokens.BatchGetTokenInfo(ctx, undiscovered)
}
