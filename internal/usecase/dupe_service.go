package usecase

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

const (
	defaultSimilarityFloor = 0.70
	defaultPriceRatio      = 0.85
	maxDupeAlternatives    = 5
)

// DupeServiceConfig holds the qualification thresholds for dupe hunting
type DupeServiceConfig struct {
	SimilarityFloor float64 // minimum similarity for a candidate to count as a dupe
	PriceRatio      float64 // candidate price must stay below target price times this ratio
}

// DupeService turns raw similarity hits into an affordability verdict
type DupeService struct {
	search *SearchService
	logger zerolog.Logger

	similarityFloor float64
	priceRatio      float64
}

// NewDupeService creates a dupe service on top of the search service
func NewDupeService(search *SearchService, config DupeServiceConfig, logger zerolog.Logger) *DupeService {
	similarityFloor := config.SimilarityFloor
	if similarityFloor == 0 {
		similarityFloor = defaultSimilarityFloor
	}

	priceRatio := config.PriceRatio
	if priceRatio == 0 {
		priceRatio = defaultPriceRatio
	}

	return &DupeService{
		search:          search,
		logger:          logger,
		similarityFloor: similarityFloor,
		priceRatio:      priceRatio,
	}
}

// FindDupes looks for cheaper products with a similar ingredient profile.
// Flow: similarity search -> qualify candidates -> verdict
//
// The search runs without a price ceiling on purpose: affordability is
// judged against the target price here, never filtered out of the
// candidate pool, so a strong match slightly above the ratio still shows
// up among the fallback alternatives.
func (s *DupeService) FindDupes(ctx context.Context, query domain.DupeQuery) domain.DupeVerdict {
	candidates := s.search.Search(ctx, domain.SearchQuery{
		Ingredients: query.Ingredients,
		TopN:        query.TopN,
		Primary:     query.Primary,
		Secondary:   query.Secondary,
	})

	if len(candidates) == 0 {
		return domain.DupeVerdict{
			FoundCheaperDupe: false,
			Alternatives:     []domain.SearchResult{},
			Message:          "No comparable products found in the catalog",
		}
	}

	qualifiers := qualifyDupes(candidates, query.TargetPrice, s.similarityFloor, s.priceRatio)

	if len(qualifiers) == 0 {
		s.logger.Debug().
			Float64("target_price", query.TargetPrice).
			Int("candidates", len(candidates)).
			Msg("No candidate cleared the dupe thresholds")

		// Keep the closest match visible even when nothing beats the price.
		best := candidates[0]
		return domain.DupeVerdict{
			FoundCheaperDupe: false,
			BestDupe:         &best,
			Alternatives:     capAlternatives(candidates),
			Message:          "No cheaper dupe found, showing the closest matches instead",
		}
	}

	best := qualifiers[0]
	return domain.DupeVerdict{
		FoundCheaperDupe: true,
		BestDupe:         &best,
		Alternatives:     capAlternatives(qualifiers),
	}
}

// qualifyDupes keeps the candidates that clear both the similarity floor
// and the affordability test, preserving ranking order. A non-positive
// target price disables the price test, so any sufficiently similar
// candidate qualifies with zero savings.
func qualifyDupes(candidates []domain.SearchResult, targetPrice, similarityFloor, priceRatio float64) []domain.SearchResult {
	qualifiers := make([]domain.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Similarity <= similarityFloor {
			continue
		}
		if targetPrice > 0 {
			if candidate.Price <= 0 || candidate.Price >= targetPrice*priceRatio {
				continue
			}
			candidate.SavingsAmount = math.Round((targetPrice-candidate.Price)*100) / 100
		}
		candidate.IsEconomicDupe = true
		qualifiers = append(qualifiers, candidate)
	}
	return qualifiers
}

func capAlternatives(results []domain.SearchResult) []domain.SearchResult {
	if len(results) > maxDupeAlternatives {
		return results[:maxDupeAlternatives]
	}
	return results
}
