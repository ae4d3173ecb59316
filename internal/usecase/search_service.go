package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/cache"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
)

const (
	defaultTopN           = 20
	defaultPriceHeadroom  = 1.5
	ingredientsPreviewLen = 100
)

// fallbackFilterOptions is served before the first index build so the
// mobile client can still render its filter pickers.
var fallbackFilterOptions = domain.FilterOptions{
	Categories: []string{"Skincare", "Makeup", "Haircare"},
	Brands:     []string{},
	Types:      []string{"Serum", "Cream", "Cleanser", "Toner", "Mask"},
}

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	TopN          int           // result count when the query does not ask for one
	PriceHeadroom float64       // slack multiplier applied to the price ceiling filter
	CacheTTL      time.Duration // query embedding cache TTL, zero never expires
}

// SearchService ranks catalog products by ingredient profile similarity.
// The active index is an immutable value replaced wholesale by Swap, so
// in-flight queries keep the index they loaded while a rebuild runs.
type SearchService struct {
	cache      domain.CacheRepository
	provider   domain.EmbeddingProvider
	normalizer *IngredientNormalizer
	collector  *metrics.Collector
	logger     zerolog.Logger

	mu    sync.RWMutex
	index *domain.ProductIndex

	topN          int
	priceHeadroom float64
	cacheTTL      time.Duration
}

// NewSearchService creates a search service with dependencies
func NewSearchService(
	cacheRepo domain.CacheRepository,
	provider domain.EmbeddingProvider,
	collector *metrics.Collector,
	config SearchServiceConfig,
	logger zerolog.Logger,
) *SearchService {
	topN := config.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	priceHeadroom := config.PriceHeadroom
	if priceHeadroom <= 0 {
		priceHeadroom = defaultPriceHeadroom
	}

	return &SearchService{
		cache:         cacheRepo,
		provider:      provider,
		normalizer:    NewIngredientNormalizer(),
		collector:     collector,
		logger:        logger,
		topN:          topN,
		priceHeadroom: priceHeadroom,
		cacheTTL:      config.CacheTTL,
	}
}

// Swap installs a freshly built index as the active one. Safe to call
// while searches are running.
func (s *SearchService) Swap(index *domain.ProductIndex) {
	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	s.collector.SetIndexedProducts(index.Len())
	s.collector.RecordRebuild()
	s.logger.Info().Int("products", index.Len()).Str("model", index.ModelTag).Msg("Product index activated")
}

// Ready reports whether an index has been installed
func (s *SearchService) Ready() bool {
	return s.current() != nil
}

// ProductCount returns the number of indexed products, zero before the
// first build.
func (s *SearchService) ProductCount() int {
	return s.current().Len()
}

// Search returns the catalog products most similar to the query's
// ingredient text, best first.
// Flow: filter candidates -> embed query (cache first) -> rank by similarity -> assemble
//
// Search never fails: an unbuilt index or an embedding error both produce
// an empty slice, with the cause logged.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) []domain.SearchResult {
	start := time.Now()

	index := s.current()
	if index == nil {
		s.collector.RecordSearch(metrics.OutcomeNotReady, time.Since(start))
		s.logger.Debug().Msg("Search requested before index build")
		return []domain.SearchResult{}
	}

	topN := query.TopN
	if topN <= 0 {
		topN = s.topN
	}

	candidates := s.eligiblePositions(index, query)
	if len(candidates) == 0 {
		// Nothing survives the filters. Widen to the whole catalog so the
		// caller still gets the closest matches instead of an empty page.
		candidates = make([]int, index.Len())
		for i := range candidates {
			candidates[i] = i
		}
	}

	queryVector, err := s.embedQuery(ctx, query.Ingredients)
	if err != nil {
		s.collector.RecordSearch(metrics.OutcomeEmpty, time.Since(start))
		s.logger.Error().Err(err).Msg("Failed to embed search query")
		return []domain.SearchResult{}
	}

	ranked := rankBySimilarity(queryVector, index.Vectors, candidates)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, hit := range ranked {
		product := index.Products[hit.position]
		results = append(results, domain.SearchResult{
			ProductID:          product.ID,
			ProductName:        product.Name,
			BrandName:          product.Brand,
			Price:              product.Price,
			Similarity:         math.Round(hit.score*1000) / 1000,
			SecondaryCategory:  product.SecondaryCategory,
			Rating:             product.Rating,
			Reviews:            product.Reviews,
			IngredientsPreview: ingredientsPreview(product.Ingredients),
		})
	}

	outcome := metrics.OutcomeServed
	if len(results) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	s.collector.RecordSearch(outcome, time.Since(start))
	return results
}

// Filters reports the distinct catalog values the client can filter on.
// Before the first build it serves a static fallback set.
func (s *SearchService) Filters() domain.FilterOptions {
	index := s.current()
	if index == nil {
		return fallbackFilterOptions
	}

	categories := make(map[string]struct{})
	brands := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, product := range index.Products {
		if product.PrimaryCategory != "" {
			categories[product.PrimaryCategory] = struct{}{}
		}
		if product.Brand != "" {
			brands[product.Brand] = struct{}{}
		}
		if product.SecondaryCategory != "" {
			types[product.SecondaryCategory] = struct{}{}
		}
	}

	return domain.FilterOptions{
		Categories: sortedKeys(categories),
		Brands:     sortedKeys(brands),
		Types:      sortedKeys(types),
	}
}

// Catalog returns the indexed products in catalog order. The slice is
// shared with the index and must not be mutated.
func (s *SearchService) Catalog() []domain.Product {
	index := s.current()
	if index == nil {
		return nil
	}
	return index.Products
}

func (s *SearchService) current() *domain.ProductIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// eligiblePositions applies the query's category and price filters and
// returns the surviving index positions in catalog order.
func (s *SearchService) eligiblePositions(index *domain.ProductIndex, query domain.SearchQuery) []int {
	filterPrimary := query.Primary != "" && query.Primary != domain.PrimaryAll
	filterSecondary := query.Secondary != "" && query.Secondary != domain.SecondaryUnknown
	filterPrice := query.PriceCeiling > 0
	priceLimit := query.PriceCeiling * s.priceHeadroom

	eligible := make([]int, 0, index.Len())
	for i, product := range index.Products {
		if filterPrimary && product.PrimaryCategory != query.Primary {
			continue
		}
		if filterSecondary && product.SecondaryCategory != query.Secondary {
			continue
		}
		if filterPrice && product.Price > priceLimit {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}

// embedQuery returns the unit vector for the query text, consulting the
// embedding cache before calling the provider.
func (s *SearchService) embedQuery(ctx context.Context, ingredients string) ([]float32, error) {
	normalized := s.normalizer.Normalize(ingredients)
	key := cache.EmbeddingKey(s.provider.Model(), normalized)

	vector, err := s.cache.GetVector(ctx, key)
	if err == nil {
		s.collector.RecordCacheHit()
		return vector, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("Embedding cache lookup failed")
	}
	s.collector.RecordCacheMiss()

	embedStart := time.Now()
	vector, err = s.provider.EmbedOne(ctx, normalized)
	if err != nil {
		return nil, err
	}
	s.collector.ObserveEmbed(time.Since(embedStart))

	if err := s.cache.SetVector(ctx, key, vector, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache query embedding")
	}
	return vector, nil
}

type scoredPosition struct {
	position int
	score    float64
}

// rankBySimilarity scores every candidate position against the query
// vector and orders them best first. Both sides are unit vectors, so the
// dot product is the cosine similarity. The sort is stable, keeping
// catalog order among equal scores.
func rankBySimilarity(query []float32, vectors [][]float32, candidates []int) []scoredPosition {
	ranked := make([]scoredPosition, 0, len(candidates))
	for _, position := range candidates {
		ranked = append(ranked, scoredPosition{
			position: position,
			score:    dotProduct(query, vectors[position]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func dotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// ingredientsPreview truncates an ingredient list for result payloads
// without splitting a multi-byte character.
func ingredientsPreview(raw string) string {
	runes := []rune(raw)
	if len(runes) <= ingredientsPreviewLen {
		return raw
	}
	return string(runes[:ingredientsPreviewLen])
}

func sortedKeys(values map[string]struct{}) []string {
	keys := make([]string, 0, len(values))
	for value := range values {
		keys = append(keys, value)
	}
	sort.Strings(keys)
	return keys
}
