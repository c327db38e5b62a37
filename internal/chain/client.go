package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cardano-wallet-sync/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPSource implements Source against a Blockfrost-style indexer REST
// API. Retries with exponential backoff on transport errors, 429 and
// 5xx responses; other statuses fail immediately.
type HTTPSource struct {
	baseURL     string
	projectID   string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// SourceOption configures HTTPSource.
type SourceOption func(*HTTPSource)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *HTTPSource) {
		s.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) SourceOption {
	return func(s *HTTPSource) {
		s.maxRetries = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) SourceOption {
	return func(s *HTTPSource) {
		s.retryDelay = d
	}
}

// WithMaxDelay sets the maximum retry delay.
func WithMaxDelay(d time.Duration) SourceOption {
	return func(s *HTTPSource) {
		s.maxDelay = d
	}
}

// WithProjectID sets the indexer API key, sent as the project_id header.
func WithProjectID(id string) SourceOption {
	return func(s *HTTPSource) {
		s.projectID = id
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) SourceOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// NewHTTPSource creates an HTTP transaction source.
func NewHTTPSource(baseURL string, opts ...SourceOption) *HTTPSource {
	s := &HTTPSource{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Source = (*HTTPSource)(nil)

// FetchTransactions returns one page of confirmed transactions for the
// address, oldest first. An empty slice means the wallet history is
// exhausted.
func (s *HTTPSource) FetchTransactions(ctx context.Context, walletAddress string, page int) ([]*domain.RawTransaction, error) {
	if page < 1 {
		page = 1
	}
	endpoint := fmt.Sprintf("%s/addresses/%s/transactions?order=asc&page=%s",
		s.baseURL, url.PathEscape(walletAddress), strconv.Itoa(page))

	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelopes []*txEnvelope
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, fmt.Errorf("decode transactions page %d: %w", page, err)
	}

	txs := make([]*domain.RawTransaction, 0, len(envelopes))
	for _, env := range envelopes {
		tx, err := decodeTransaction(env)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// get performs a GET with retries and exponential backoff.
func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	delay := s.retryDelay
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * s.backoffMult)
			if delay > s.maxDelay {
				delay = s.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if s.projectID != "" {
			req.Header.Set("project_id", s.projectID)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
			continue
		default:
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
