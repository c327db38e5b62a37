package sync

import (
	"context"
	"errors"
	"testing"

	"cardano-wallet-sync/internal/chain/stub"
	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/parser"
	"cardano-wallet-sync/internal/registry"
	"cardano-wallet-sync/internal/storage/memory"
)

const testWallet = "addr1qxck8m7y0c3mxxd5p2jw8nm3r7k5vqwcrr3nqq4ygw8vqsamplewal"

func newTestParser(t *testing.T) *parser.Parser {
	t.Helper()
	reg, err := registry.New(registry.Options{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	p, err := parser.New(parser.Options{Tokens: reg})
	if err != nil {
		t.Fatalf("parser: %v", err)
	}
	return p
}

// failingSink always errors, to prove mirroring is best-effort.
type failingSink struct{ calls int }

func (s *failingSink) InsertBulk(context.Context, []*domain.WalletTransaction) error {
	s.calls++
	return errors.New("sink unavailable")
}

func TestRunner_FullSync(t *testing.T) {
	txs := stub.DemoTransactions(testWallet)
	store := memory.NewWalletTransactionStore()

	runner, err := New(Options{
		Source: stub.NewStubSource(txs, 2), // force multiple pages
		Parser: newTestParser(t),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := runner.Run(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Fetched != len(txs) {
		t.Errorf("fetched = %d, want %d", result.Fetched, len(txs))
	}
	if result.Parsed != len(txs) {
		t.Errorf("parsed = %d, want %d", result.Parsed, len(txs))
	}
	if result.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", result.Skipped)
	}

	stored, err := store.GetByWallet(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if len(stored) != len(txs) {
		t.Fatalf("stored %d records, want %d", len(stored), len(txs))
	}

	actions := make(map[domain.Action]int)
	for _, tx := range stored {
		actions[tx.Action]++
	}
	if actions[domain.ActionReceive] != 1 || actions[domain.ActionSwap] != 1 || actions[domain.ActionClaimRewards] != 1 {
		t.Errorf("unexpected action mix: %v", actions)
	}
}

func TestRunner_ResyncConverges(t *testing.T) {
	txs := stub.DemoTransactions(testWallet)
	store := memory.NewWalletTransactionStore()

	runner, err := New(Options{
		Source: stub.NewStubSource(txs, 25),
		Parser: newTestParser(t),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := runner.Run(context.Background(), testWallet); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	stored, err := store.GetByWallet(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if len(stored) != len(txs) {
		t.Errorf("re-sync duplicated records: %d, want %d", len(stored), len(txs))
	}
}

func TestRunner_SinkFailureIsNotFatal(t *testing.T) {
	txs := stub.DemoTransactions(testWallet)
	store := memory.NewWalletTransactionStore()
	sink := &failingSink{}

	runner, err := New(Options{
		Source:  stub.NewStubSource(txs, 25),
		Parser:  newTestParser(t),
		Store:   store,
		History: sink,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := runner.Run(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("Run must tolerate sink failures: %v", err)
	}
	if sink.calls == 0 {
		t.Error("sink was never invoked")
	}
	if result.Parsed != len(txs) {
		t.Errorf("parsed = %d, want %d", result.Parsed, len(txs))
	}
}

func TestRunner_SkipsIrrelevantTransactions(t *testing.T) {
	other := "addr1q9unrelatedwallet00000000000000000000000000000unrelated"
	txs := stub.DemoTransactions(other)
	store := memory.NewWalletTransactionStore()

	runner, err := New(Options{
		Source: stub.NewStubSource(txs, 25),
		Parser: newTestParser(t),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := runner.Run(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Parsed != 0 || result.Skipped != len(txs) {
		t.Errorf("expected all skipped, got %+v", result)
	}
}

func TestRunner_RunLive(t *testing.T) {
	store := memory.NewWalletTransactionStore()
	runner, err := New(Options{
		Source: stub.NewStubSource(nil, 25),
		Parser: newTestParser(t),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tip := make(chan *domain.RawTransaction, 4)
	for _, tx := range stub.DemoTransactions(testWallet) {
		tip <- tx
	}
	close(tip)

	result, err := runner.RunLive(context.Background(), testWallet, tip)
	if err != nil {
		t.Fatalf("RunLive: %v", err)
	}
	if result.Parsed != 3 {
		t.Errorf("parsed = %d, want 3", result.Parsed)
	}
}
