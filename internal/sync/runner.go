// Package sync drives the pipeline end to end: page through a chain
// source, parse each page as a batch, and persist the results.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cardano-wallet-sync/internal/chain"
	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/parser"
	"cardano-wallet-sync/internal/storage"
)

// HistorySink receives parsed transactions for analytics mirroring.
// Optional; sink failures are logged, never fatal to a sync run.
type HistorySink interface {
	InsertBulk(ctx context.Context, txs []*domain.WalletTransaction) error
}

// RunResult summarizes one sync run.
type RunResult struct {
	Fetched int // raw transactions pulled from the source
	Parsed  int // records produced and stored
	Skipped int // irrelevant transactions
	Unknown int // records with an UNKNOWN action (categorization gaps)
}

// Runner pages a wallet's history out of the chain source and through
// the parser into the transaction store.
type Runner struct {
	source  chain.Source
	parser  *parser.Parser
	store   storage.WalletTransactionStore
	history HistorySink
}

// Options configures a Runner. Source, Parser, and Store are required;
// History is optional.
type Options struct {
	Source  chain.Source
	Parser  *parser.Parser
	Store   storage.WalletTransactionStore
	History HistorySink
}

// New creates a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Source == nil {
		return nil, errors.New("sync: chain source is required")
	}
	if opts.Parser == nil {
		return nil, errors.New("sync: parser is required")
	}
	if opts.Store == nil {
		return nil, errors.New("sync: transaction store is required")
	}
	return &Runner{
		source:  opts.Source,
		parser:  opts.Parser,
		store:   opts.Store,
		history: opts.History,
	}, nil
}

// Run syncs the wallet's full history. Each page is parsed as one
// batch (one token pre-discovery pass per page) and upserted, so an
// interrupted run can simply be restarted: ids are deterministic and
// upserts converge.
func (r *Runner) Run(ctx context.Context, walletAddress string) (*RunResult, error) {
	result := &RunResult{}

	for page := 1; ; page++ {
		rawTxs, err := r.source.FetchTransactions(ctx, walletAddress, page)
		if err != nil {
			return result, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if len(rawTxs) == 0 {
			return result, nil
		}
		result.Fetched += len(rawTxs)

		parsed, err := r.parser.ParseTransactionBatch(ctx, rawTxs, walletAddress)
		if err != nil {
			return result, fmt.Errorf("parse page %d: %w", page, err)
		}
		result.Skipped += len(rawTxs) - len(parsed)

		if err := r.persist(ctx, parsed); err != nil {
			return result, fmt.Errorf("persist page %d: %w", page, err)
		}

		result.Parsed += len(parsed)
		for _, tx := range parsed {
			if tx.Action == domain.ActionUnknown {
				result.Unknown++
			}
		}
	}
}

// RunLive consumes a follower channel until the context ends or the
// channel closes, parsing and persisting each tip transaction as it
// confirms.
func (r *Runner) RunLive(ctx context.Context, walletAddress string, tip <-chan *domain.RawTransaction) (*RunResult, error) {
	result := &RunResult{}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case rawTx, ok := <-tip:
			if !ok {
				return result, nil
			}
			result.Fetched++

			tx, err := r.parser.ParseTransaction(ctx, rawTx, walletAddress)
			if err != nil {
				return result, fmt.Errorf("parse tip tx %s: %w", rawTx.Hash, err)
			}
			if tx == nil {
				result.Skipped++
				continue
			}

			if err := r.persist(ctx, []*domain.WalletTransaction{tx}); err != nil {
				return result, fmt.Errorf("persist tip tx %s: %w", rawTx.Hash, err)
			}
			result.Parsed++
			if tx.Action == domain.ActionUnknown {
				result.Unknown++
			}
		}
	}
}

// persist upserts into the primary store and mirrors to the analytics
// sink when configured.
func (r *Runner) persist(ctx context.Context, txs []*domain.WalletTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	if err := r.store.UpsertBulk(ctx, txs); err != nil {
		return err
	}
	if r.history != nil {
		if err := r.history.InsertBulk(ctx, txs); err != nil {
			log.Printf("sync: analytics mirror failed (continuing): %v", err)
		}
	}
	return nil
}
