package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default client configuration values.
const (
	DefaultLookupTimeout    = 5 * time.Second
	DefaultBatchBaseTimeout = 10 * time.Second
	DefaultBatchPerUnit     = 50 * time.Millisecond
	MaxBatchTimeout         = 60 * time.Second
)

// ErrNotFound is returned when the metadata API has no record for a
// subject. A 404 is an expected outcome, not a failure.
var ErrNotFound = errors.New("token metadata not found")

// StringProperty is a signed string property from the token registry.
type StringProperty struct {
	Value          string `json:"value"`
	SequenceNumber int    `json:"sequenceNumber"`
}

// IntProperty is a signed integer property from the token registry.
type IntProperty struct {
	Value          int `json:"value"`
	SequenceNumber int `json:"sequenceNumber"`
}

// SubjectMetadata is one record from the Cardano token registry.
// Subject equals the asset unit. All properties are optional.
type SubjectMetadata struct {
	Subject     string          `json:"subject"`
	Name        *StringProperty `json:"name,omitempty"`
	Description *StringProperty `json:"description,omitempty"`
	Ticker      *StringProperty `json:"ticker,omitempty"`
	URL         *StringProperty `json:"url,omitempty"`
	Logo        *StringProperty `json:"logo,omitempty"`
	Decimals    *IntProperty    `json:"decimals,omitempty"`
}

// MetadataClient queries an external token metadata registry.
type MetadataClient interface {
	// Lookup fetches metadata for one subject. Returns ErrNotFound on 404.
	Lookup(ctx context.Context, unit string) (*SubjectMetadata, error)

	// LookupBatch fetches metadata for many subjects in one call.
	// Subjects unknown to the registry are simply absent from the result.
	LookupBatch(ctx context.Context, units []string) ([]*SubjectMetadata, error)
}

// HTTPMetadataClient implements MetadataClient against the Cardano
// token registry HTTP API (GET /metadata/{subject},
// POST /metadata/query).
type HTTPMetadataClient struct {
	baseURL       string
	client        *http.Client
	lookupTimeout time.Duration
	batchBase     time.Duration
	batchPerUnit  time.Duration
}

// MetadataClientOption configures HTTPMetadataClient.
type MetadataClientOption func(*HTTPMetadataClient)

// WithLookupTimeout sets the per-unit lookup timeout.
func WithLookupTimeout(d time.Duration) MetadataClientOption {
	return func(c *HTTPMetadataClient) {
		c.lookupTimeout = d
	}
}

// WithBatchTimeouts sets the batch timeout: base + perUnit * len(units),
// capped at MaxBatchTimeout.
func WithBatchTimeouts(base, perUnit time.Duration) MetadataClientOption {
	return func(c *HTTPMetadataClient) {
		c.batchBase = base
		c.batchPerUnit = perUnit
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) MetadataClientOption {
	return func(c *HTTPMetadataClient) {
		c.client = client
	}
}

// NewHTTPMetadataClient creates a new registry client.
func NewHTTPMetadataClient(baseURL string, opts ...MetadataClientOption) *HTTPMetadataClient {
	c := &HTTPMetadataClient{
		baseURL:       baseURL,
		client:        &http.Client{},
		lookupTimeout: DefaultLookupTimeout,
		batchBase:     DefaultBatchBaseTimeout,
		batchPerUnit:  DefaultBatchPerUnit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ MetadataClient = (*HTTPMetadataClient)(nil)

// Lookup fetches metadata for one subject. Returns ErrNotFound on 404.
func (c *HTTPMetadataClient) Lookup(ctx context.Context, unit string) (*SubjectMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata/"+unit, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata lookup %s: %w", unit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata lookup %s: unexpected status %d", unit, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata response: %w", err)
	}

	var subject SubjectMetadata
	if err := json.Unmarshal(body, &subject); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	return &subject, nil
}

// batchQuery is the POST /metadata/query request body.
type batchQuery struct {
	Subjects []string `json:"subjects"`
}

// batchResponse is the POST /metadata/query response body.
type batchResponse struct {
	Subjects []*SubjectMetadata `json:"subjects"`
}

// LookupBatch fetches metadata for many subjects in one call. The
// timeout grows with the unit count so large batches are not starved.
func (c *HTTPMetadataClient) LookupBatch(ctx context.Context, units []string) ([]*SubjectMetadata, error) {
	if len(units) == 0 {
		return nil, nil
	}

	timeout := c.batchBase + time.Duration(len(units))*c.batchPerUnit
	if timeout > MaxBatchTimeout {
		timeout = MaxBatchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(batchQuery{Subjects: units})
	if err != nil {
		return nil, fmt.Errorf("marshal batch query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/metadata/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata batch query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata batch query: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read batch response: %w", err)
	}

	var parsed batchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return parsed.Subjects, nil
}
