package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

const reportSimilarCount = 5

// Safety scan watch lists. Matching is substring-based on the lowercased
// ingredient text, so "methylparaben" trips the "paraben" entry.
var (
	comedogenicIngredients = []string{
		"isopropyl myristate", "coconut oil", "sodium chloride", "lanolin",
	}
	irritantIngredients = []string{
		"fragrance", "parfum", "alcohol denat", "menthol", "linalool",
	}
	watchListIngredients = []string{
		"paraben", "sulfate", "phthalate", "formaldehyde",
	}
)

// Safety grades, best to worst
const (
	SafetyExcellent = "Excellent"
	SafetyGood      = "Good"
	SafetyCaution   = "Caution"
)

// ReportService assembles the full quality report for a product
type ReportService struct {
	search     *SearchService
	classifier *CategoryClassifier
	logger     zerolog.Logger
}

// NewReportService creates a report service on top of the search service
func NewReportService(search *SearchService, logger zerolog.Logger) *ReportService {
	return &ReportService{
		search:     search,
		classifier: NewCategoryClassifier(),
		logger:     logger,
	}
}

// BuildReport assembles the quality report for one product.
// Flow: classify -> safety scan -> similar products -> market stats
//
// The similar-product search is restricted to the product's detected type
// so a serum is compared against serums, not the whole catalog.
func (s *ReportService) BuildReport(ctx context.Context, query domain.QualityQuery) domain.ProductReport {
	primary, secondary := s.classifier.Classify(query.ProductName, query.Ingredients)
	safety := s.AnalyzeSafety(query.Ingredients)

	similar := s.search.Search(ctx, domain.SearchQuery{
		Ingredients: query.Ingredients,
		TopN:        reportSimilarCount,
		Secondary:   secondary,
	})

	return domain.ProductReport{
		Identification: domain.ProductIdentification{
			ProductName:      query.ProductName,
			Brand:            query.BrandName,
			DetectedCategory: secondary,
			PrimaryCategory:  primary,
		},
		IngredientsAnalysis: safety,
		MarketAnalysis: domain.MarketAnalysis{
			AverageSimilarPrice: averagePositivePrice(similar),
			SimilarCount:        len(similar),
		},
		TopSimilarProducts: similar,
	}
}

// AnalyzeSafety scans an ingredient list for commonly flagged substances
// and grades the product by how many watch list entries it trips.
func (s *ReportService) AnalyzeSafety(ingredients string) domain.SafetyReport {
	lowered := strings.ToLower(ingredients)

	report := domain.SafetyReport{
		Comedogenic: matchWatchList(lowered, comedogenicIngredients),
		Irritants:   matchWatchList(lowered, irritantIngredients),
		CheckList:   matchWatchList(lowered, watchListIngredients),
	}

	flagged := len(report.Comedogenic) + len(report.Irritants) + len(report.CheckList)
	switch {
	case flagged == 0:
		report.SafetyScore = SafetyExcellent
	case flagged <= 2:
		report.SafetyScore = SafetyGood
	default:
		report.SafetyScore = SafetyCaution
	}
	return report
}

func matchWatchList(lowered string, needles []string) []string {
	found := make([]string, 0)
	for _, needle := range needles {
		if strings.Contains(lowered, needle) {
			found = append(found, needle)
		}
	}
	return found
}

// averagePositivePrice averages the prices of the given results, skipping
// entries without price data.
func averagePositivePrice(results []domain.SearchResult) float64 {
	var sum float64
	count := 0
	for _, result := range results {
		if result.Price > 0 {
			sum += result.Price
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*100) / 100
}
