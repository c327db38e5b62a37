package chain

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testWallet = "addr1qxck8m7y0c3mxxd5p2jw8nm3r7k5vqwcrr3nqq4ygw8vqsamplewal"

const pageOneJSON = `[
  {
    "tx_hash": "aa11",
    "block_height": 9000001,
    "block_time": 1700000000,
    "fee": "170000",
    "inputs": [
      {"address": "addr1qxck8m7y0c3mxxd5p2jw8nm3r7k5vqwcrr3nqq4ygw8vqsamplewal",
       "amount": [{"unit": "lovelace", "quantity": "45000000000000000"}]}
    ],
    "outputs": [
      {"address": "addr1q9other00000000000000000000000000000000000000000other",
       "amount": [{"unit": "lovelace", "quantity": "44999999999830000"}]}
    ],
    "metadata": {"674": "minswap"},
    "withdrawals": [{"address": "stake1u9x", "amount": "4831774"}],
    "certificates": [{"cert_type": "stake_delegation", "pool_id": "pool1abc"}]
  }
]`

func TestHTTPSource_FetchTransactions(t *testing.T) {
	var gotPath, gotProject string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotProject = r.Header.Get("project_id")
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(pageOneJSON))
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, WithProjectID("testkey"))

	txs, err := source.FetchTransactions(context.Background(), testWallet, 1)
	if err != nil {
		t.Fatalf("FetchTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if gotProject != "testkey" {
		t.Errorf("project_id header = %q", gotProject)
	}
	if gotPath != "/addresses/"+testWallet+"/transactions?order=asc&page=1" {
		t.Errorf("unexpected request path %q", gotPath)
	}

	tx := txs[0]
	if tx.Hash != "aa11" || tx.BlockHeight != 9000001 || tx.BlockTime != 1700000000 {
		t.Errorf("header fields wrong: %+v", tx)
	}
	if tx.Fee.Cmp(big.NewInt(170_000)) != 0 {
		t.Errorf("fee = %s", tx.Fee)
	}
	// Quantities above 2^53 must survive the string decoding.
	want, _ := new(big.Int).SetString("45000000000000000", 10)
	if tx.Inputs[0].Amounts[0].Quantity.Cmp(want) != 0 {
		t.Errorf("input quantity = %s, want %s", tx.Inputs[0].Amounts[0].Quantity, want)
	}
	if tx.Metadata["674"] != "minswap" {
		t.Errorf("metadata lost: %v", tx.Metadata)
	}
	if len(tx.Withdrawals) != 1 || tx.Withdrawals[0].Amount.Cmp(big.NewInt(4_831_774)) != 0 {
		t.Errorf("withdrawals wrong: %+v", tx.Withdrawals)
	}
	if len(tx.Certificates) != 1 || tx.Certificates[0].Type != "stake_delegation" || tx.Certificates[0].PoolID != "pool1abc" {
		t.Errorf("certificates wrong: %+v", tx.Certificates)
	}

	empty, err := source.FetchTransactions(context.Background(), testWallet, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected exhausted page, got %d", len(empty))
	}
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond))

	if _, err := source.FetchTransactions(context.Background(), testWallet, 1); err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestHTTPSource_ClientErrorIsFatal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, WithRetryDelay(time.Millisecond))

	if _, err := source.FetchTransactions(context.Background(), testWallet, 1); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", calls.Load())
	}
}

func TestDecodeTransaction_MalformedQuantity(t *testing.T) {
	env := &txEnvelope{
		Hash: "bad1",
		Inputs: []txIOEnvelope{{
			Address: testWallet,
			Amounts: []amountWire{{Unit: "lovelace", Quantity: "not-a-number"}},
		}},
	}
	if _, err := decodeTransaction(env); err == nil {
		t.Fatal("expected decode error")
	}
}
