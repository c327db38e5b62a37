package registry

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"

	"cardano-wallet-sync/internal/domain"
	"cardano-wallet-sync/internal/storage"
)

// Default registry configuration values.
const (
	DefaultCacheSize        = 2048
	DefaultBatchConcurrency = 8
)

// Registry resolves asset units to token metadata through three tiers:
// in-process LRU cache, persistent store, external metadata API. When
// all tiers miss, it synthesizes a fallback record and persists it so
// repeated lookups of unknown tokens never hit the network again.
//
// GetTokenInfo and BatchGetTokenInfo never fail: data-quality problems
// degrade to fallback records, they are not surfaced as errors.
type Registry struct {
	cache          *lru.Cache[string, *domain.TokenInfo]
	store          storage.TokenStore
	client         MetadataClient
	protocolTokens *ProtocolTokens
	concurrency    int
}

// Options configures a Registry. Store and Client are optional: a
// registry without a client resolves from cache/store/fallback only.
type Options struct {
	CacheSize      int
	Store          storage.TokenStore
	Client         MetadataClient
	ProtocolTokens *ProtocolTokens
	Concurrency    int
}

// New creates a Registry.
func New(opts Options) (*Registry, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *domain.TokenInfo](size)
	if err != nil {
		return nil, err
	}

	tokens := opts.ProtocolTokens
	if tokens == nil {
		tokens = NewProtocolTokens()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	return &Registry{
		cache:          cache,
		store:          opts.Store,
		client:         opts.Client,
		protocolTokens: tokens,
		concurrency:    concurrency,
	}, nil
}

// ProtocolTokens exposes the protocol-token table shared with the
// categorization rules.
func (r *Registry) ProtocolTokens() *ProtocolTokens {
	return r.protocolTokens
}

// Has reports whether a unit needs no external discovery: the native
// coin, a cache hit, or a known protocol token.
func (r *Registry) Has(unit string) bool {
	if unit == domain.LovelaceUnit {
		return true
	}
	if r.cache.Contains(unit) {
		return true
	}
	return r.protocolTokens.Known(unit)
}

// GetTokenInfo resolves one unit. It always returns a record.
func (r *Registry) GetTokenInfo(ctx context.Context, unit string) *domain.TokenInfo {
	if unit == domain.LovelaceUnit {
		return domain.Lovelace()
	}

	if token, ok := r.cache.Get(unit); ok {
		return token
	}

	if token := r.lookupStore(ctx, unit); token != nil {
		r.cache.Add(unit, token)
		return token
	}

	token := r.resolveExternal(ctx, unit)
	r.cache.Add(unit, token)
	return token
}

// BatchGetTokenInfo resolves many units with at most one batch API
// call. Partial API failures degrade the affected units to fallback
// records; results already gathered are always returned.
func (r *Registry) BatchGetTokenInfo(ctx context.Context, units []string) map[string]*domain.TokenInfo {
	result := make(map[string]*domain.TokenInfo, len(units))

	var unresolved []string
	for _, unit := range lo.Uniq(units) {
		if unit == domain.LovelaceUnit {
			result[unit] = domain.Lovelace()
			continue
		}
		if token, ok := r.cache.Get(unit); ok {
			result[unit] = token
			continue
		}
		unresolved = append(unresolved, unit)
	}
	if len(unresolved) == 0 {
		return result
	}

	// Tier 2: persistent store, one query for all misses.
	if r.store != nil {
		stored, err := r.store.FindByUnits(ctx, unresolved)
		if err != nil {
			log.Printf("token registry: batch store lookup failed: %v", err)
		} else {
			for unit, token := range stored {
				r.cache.Add(unit, token)
				result[unit] = token
			}
			unresolved = lo.Filter(unresolved, func(unit string, _ int) bool {
				_, found := stored[unit]
				return !found
			})
		}
	}
	if len(unresolved) == 0 {
		return result
	}

	// Tier 3: one batch API call for everything still missing.
	if r.client != nil {
		subjects, err := r.client.LookupBatch(ctx, unresolved)
		if err != nil {
			log.Printf("token registry: batch metadata query failed, falling back per unit: %v", err)
		}
		requested := make(map[string]struct{}, len(unresolved))
		for _, unit := range unresolved {
			requested[unit] = struct{}{}
		}
		returned := make(map[string]struct{}, len(subjects))
		for _, subject := range subjects {
			if subject == nil || subject.Subject == "" {
				continue
			}
			// Only units we asked for: a misbehaving server must not
			// plant records for arbitrary subjects in the cache.
			if _, ok := requested[subject.Subject]; !ok {
				log.Printf("token registry: batch response contained unrequested subject %s, ignoring", subject.Subject)
				continue
			}
			token := r.tokenFromSubject(subject)
			r.persist(ctx, token)
			r.cache.Add(token.Unit, token)
			result[token.Unit] = token
			returned[subject.Subject] = struct{}{}
		}
		unresolved = lo.Filter(unresolved, func(unit string, _ int) bool {
			_, found := returned[unit]
			return !found
		})
	}
	if len(unresolved) == 0 {
		return result
	}

	// Parallel individual fallback for units the batch call missed.
	// Failed lookups degrade to synthesis; they never cancel siblings.
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.concurrency)
	)
	for _, unit := range unresolved {
		wg.Add(1)
		go func(unit string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			token := r.resolveExternal(ctx, unit)
			r.cache.Add(unit, token)

			mu.Lock()
			result[unit] = token
			mu.Unlock()
		}(unit)
	}
	wg.Wait()

	return result
}

// lookupStore checks the persistent store, logging transient failures.
func (r *Registry) lookupStore(ctx context.Context, unit string) *domain.TokenInfo {
	if r.store == nil {
		return nil
	}
	token, err := r.store.FindByUnit(ctx, unit)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("token registry: store lookup %s failed: %v", unit, err)
		}
		return nil
	}
	return token
}

// resolveExternal performs the API call for one unit, falling back to
// synthesis on any miss or failure. The result is persisted either way.
func (r *Registry) resolveExternal(ctx context.Context, unit string) *domain.TokenInfo {
	if r.client != nil {
		subject, err := r.client.Lookup(ctx, unit)
		switch {
		case err == nil && subject != nil:
			token := r.tokenFromSubject(subject)
			r.persist(ctx, token)
			return token
		case errors.Is(err, ErrNotFound):
			// expected miss, synthesize below
		default:
			log.Printf("token registry: metadata lookup %s failed: %v", unit, err)
		}
	}

	token := SynthesizeTokenInfo(unit)
	if category, ok := r.protocolTokens.Category(unit); ok {
		token.Category = category
	}
	r.persist(ctx, token)
	return token
}

// tokenFromSubject maps an API record to TokenInfo, applying category
// inference and protocol-table overrides.
func (r *Registry) tokenFromSubject(subject *SubjectMetadata) *domain.TokenInfo {
	unit := subject.Subject
	token := SynthesizeTokenInfo(unit)
	token.Metadata = map[string]string{
		"source":     "registry",
		"fetched_at": strconv.FormatInt(time.Now().Unix(), 10),
	}

	var description string
	if subject.Name != nil && subject.Name.Value != "" {
		token.Name = subject.Name.Value
	}
	if subject.Ticker != nil && subject.Ticker.Value != "" {
		token.Ticker = subject.Ticker.Value
	}
	if subject.Description != nil {
		description = subject.Description.Value
	}
	if subject.Decimals != nil && subject.Decimals.Value >= 0 {
		token.Decimals = subject.Decimals.Value
	}
	if subject.Logo != nil {
		token.Logo = normalizeLogo(subject.Logo.Value)
	}

	token.Category = InferCategory(token.Name, token.Ticker, description)
	if category, ok := r.protocolTokens.Category(unit); ok {
		token.Category = category
	}
	return token
}

// persist saves a record, logging instead of propagating failures.
func (r *Registry) persist(ctx context.Context, token *domain.TokenInfo) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, token); err != nil {
		log.Printf("token registry: persist %s failed: %v", token.Unit, err)
	}
}
