package usecase

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

const maxRecommendations = 10

// RecommendService serves the top-rated catalog picks for a skin type
// and budget.
type RecommendService struct {
	search *SearchService
	logger zerolog.Logger
}

// NewRecommendService creates a recommendation service over the indexed catalog
func NewRecommendService(search *SearchService, logger zerolog.Logger) *RecommendService {
	return &RecommendService{search: search, logger: logger}
}

// Recommend returns the highest-rated catalog products for the query.
// Flow: category filter -> skin type filter -> rating sort -> budget filter
//
// The skin type filter is best-effort: it only narrows the pool when the
// catalog actually tags highlights with the requested type, so a niche
// skin type never empties the response. The budget filter runs after the
// rating cut, matching how the mobile client pages results.
func (s *RecommendService) Recommend(query domain.RecommendQuery) []domain.Product {
	products := s.search.Catalog()
	if len(products) == 0 {
		return []domain.Product{}
	}

	if query.Category != "" && query.Category != domain.PrimaryAll {
		products = filterByCategory(products, query.Category)
	}

	skinType := strings.ToLower(strings.TrimSpace(query.SkinType))
	if skinType != "" && skinType != "all" {
		if tagged := filterBySkinType(products, skinType); len(tagged) > 0 {
			products = tagged
		}
	}

	ranked := make([]domain.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].Reviews > ranked[j].Reviews
	})

	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}

	if query.MaxPrice != nil {
		affordable := make([]domain.Product, 0, len(ranked))
		for _, product := range ranked {
			if product.Price <= *query.MaxPrice {
				affordable = append(affordable, product)
			}
		}
		ranked = affordable
	}

	return ranked
}

func filterByCategory(products []domain.Product, category string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if product.PrimaryCategory == category {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

// filterBySkinType keeps products whose highlights mention the skin type,
// matched case-insensitively as a substring. Highlights arrive from the
// catalog as one free-form string, so no per-tag parsing is attempted.
func filterBySkinType(products []domain.Product, skinType string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Highlights), skinType) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}
