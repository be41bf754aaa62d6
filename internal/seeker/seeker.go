// Package seeker gathers candidate evidence sources for a claim. Each
// verifiable sub-claim is researched against the configured backends
// (Wikipedia always, NewsAPI when a key is present), results are
// deduplicated by URL and ranked by combined relevance and
// credibility. Search responses are cached so repeated claims in a
// batch never hit the network twice.
package seeker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/skepticlab/skeptic/internal/cache"
	"github.com/skepticlab/skeptic/internal/model"
)

// Searcher queries one retrieval backend for sources matching a query
type Searcher interface {
	Kind() model.SourceKind
	Search(ctx context.Context, query string) ([]model.Source, error)
}

// Seeker coordinates retrieval backends and the search cache
type Seeker struct {
	searchers []Searcher
	enricher  *Enricher
	store     cache.Cache
	cacheTTL  time.Duration
	maxPerSub int
	verbose   bool
}

// New creates a Seeker from configuration. A nil store disables
// caching; the enricher is wired only when web search is enabled.
func New(cfg model.SearchConfig, httpCfg model.HTTPConfig, store cache.Cache, cacheTTL time.Duration, verbose bool) *Seeker {
	searchers := []Searcher{
		NewWikipediaClient(httpCfg.Timeout, httpCfg.UserAgent),
	}
	if cfg.NewsAPIKey != "" {
		searchers = append(searchers, NewNewsClient(cfg.NewsAPIKey, httpCfg.Timeout, httpCfg.UserAgent))
	}

	var enricher *Enricher
	if cfg.WebSearchEnabled {
		enricher = NewEnricher(httpCfg, cfg.RequestsPerSecond)
	}

	maxPerSub := cfg.MaxSourcesPerSub
	if maxPerSub <= 0 {
		maxPerSub = 3
	}

	return &Seeker{
		searchers: searchers,
		enricher:  enricher,
		store:     store,
		cacheTTL:  cacheTTL,
		maxPerSub: maxPerSub,
		verbose:   verbose,
	}
}

// NewWithSearchers creates a Seeker with explicit backends, used in tests
func NewWithSearchers(searchers []Searcher, store cache.Cache, cacheTTL time.Duration, maxPerSub int) *Seeker {
	if maxPerSub <= 0 {
		maxPerSub = 3
	}
	return &Seeker{
		searchers: searchers,
		store:     store,
		cacheTTL:  cacheTTL,
		maxPerSub: maxPerSub,
	}
}

// Process researches every verifiable sub-claim and populates
// claim.Sources. Retrieval failures from individual backends are
// tolerated; a claim with zero sources is a valid outcome that the
// verdict stage maps to insufficient evidence.
func (s *Seeker) Process(ctx context.Context, claim *model.Claim) error {
	queries := s.queries(claim)

	var all []model.Source
	for _, query := range queries {
		for _, searcher := range s.searchers {
			sources, err := s.search(ctx, searcher, query)
			if err != nil {
				if s.verbose {
					fmt.Fprintf(os.Stderr, "Warning: %s search failed for %q: %v\n", searcher.Kind(), query, err)
				}
				continue
			}
			all = append(all, sources...)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	unique := dedupeSources(all)
	limit := s.maxPerSub * max(len(queries), 1)
	if len(unique) > limit {
		unique = unique[:limit]
	}

	if s.enricher != nil {
		s.enricher.Enrich(ctx, unique)
	}

	claim.Sources = unique
	return nil
}

// queries returns the texts to research: verifiable sub-claims when
// the logician produced any, otherwise the claim itself.
func (s *Seeker) queries(claim *model.Claim) []string {
	var queries []string
	for _, sub := range claim.SubClaims {
		if sub.Verifiable && strings.TrimSpace(sub.Text) != "" {
			queries = append(queries, sub.Text)
		}
	}
	if len(queries) == 0 {
		queries = append(queries, claim.Text)
	}
	return queries
}

// search runs one backend query through the cache
func (s *Seeker) search(ctx context.Context, searcher Searcher, query string) ([]model.Source, error) {
	key := cache.SearchKey(string(searcher.Kind()), query)

	if s.store != nil {
		if data, found := s.store.Get(key); found {
			var sources []model.Source
			if err := json.Unmarshal(data, &sources); err == nil {
				return sources, nil
			}
			// Corrupt entry: drop it and fall through to a live search.
			_ = s.store.Delete(key)
		}
	}

	sources, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if data, err := json.Marshal(sources); err == nil {
			_ = s.store.Set(key, data, s.cacheTTL)
		}
	}

	return sources, nil
}

// dedupeSources removes duplicate URLs and ranks by the mean of
// relevance and credibility, highest first.
func dedupeSources(sources []model.Source) []model.Source {
	seen := make(map[string]bool)
	var unique []model.Source

	for _, src := range sources {
		if src.URL == "" || seen[src.URL] {
			continue
		}
		seen[src.URL] = true
		unique = append(unique, src)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a := (unique[i].RelevanceScore + unique[i].CredibilityScore) / 2
		b := (unique[j].RelevanceScore + unique[j].CredibilityScore) / 2
		return a > b
	})

	return unique
}

// relevanceScore measures word overlap between a query and content
func relevanceScore(query, content string) float64 {
	if content == "" {
		return 0
	}

	queryWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = true
	}
	if len(queryWords) == 0 {
		return 0
	}

	contentWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(content)) {
		contentWords[w] = true
	}

	matched := 0
	for w := range queryWords {
		if contentWords[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}
