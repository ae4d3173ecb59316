package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/internal/domain"
)

const maxScanMatches = 5

// ScanService resolves scanned label text to catalog products and runs the
// full quality analysis on the best match.
type ScanService struct {
	matcher *LabelMatcher
	report  *ReportService
	search  *SearchService
	logger  zerolog.Logger
}

// NewScanService creates a scan service with dependencies
func NewScanService(matcher *LabelMatcher, report *ReportService, search *SearchService, logger zerolog.Logger) *ScanService {
	return &ScanService{
		matcher: matcher,
		report:  report,
		search:  search,
		logger:  logger,
	}
}

// Scan matches label text against the catalog.
// Flow: fuzzy match on name and brand -> full report on the best match
//
// A scan with no catalog match still succeeds; the result then carries a
// warning and a suggestion instead of an analysis.
func (s *ScanService) Scan(ctx context.Context, query domain.ScanQuery) (domain.ScanResult, error) {
	result := domain.ScanResult{
		Success: true,
		Scanned: domain.ScannedLabel{
			Brand:       query.Brand,
			ProductName: query.ProductName,
		},
	}

	matches, err := s.matcher.FindMatches(ctx, query, s.search.Catalog())
	if err != nil {
		return domain.ScanResult{}, err
	}

	result.DatabaseMatches.Count = len(matches)
	result.DatabaseMatches.Matches = matches
	if len(matches) > maxScanMatches {
		result.DatabaseMatches.Matches = matches[:maxScanMatches]
	}

	if len(matches) == 0 {
		s.logger.Debug().
			Str("product_name", query.ProductName).
			Str("brand", query.Brand).
			Msg("Scanned label matched nothing in the catalog")
		result.Warning = "No matching product found in the catalog"
		result.Suggestion = "Check the label spelling or submit the ingredient list for a quality analysis"
		return result, nil
	}

	best := matches[0]
	report := s.report.BuildReport(ctx, domain.QualityQuery{
		ProductName: best.ProductName,
		BrandName:   best.BrandName,
		Ingredients: best.Ingredients,
	})
	result.Analysis = &report

	return result, nil
}
