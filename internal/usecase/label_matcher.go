package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pureskin/dupefinder/internal/domain"
)

// Acceptance gates for label matching. A strong name match stands on its
// own; a strong brand match only counts when the name at least loosely
// agrees, so two unrelated products from the same brand don't pair up.
const (
	defaultNameThreshold       = 0.60
	defaultBrandThreshold      = 0.80
	defaultSupportingThreshold = 0.30
)

// labelMatchType tags how a match was established. Matching is currently
// name-driven only; ingredient-driven matching would need its own tag.
const labelMatchType = "name_match"

// MatchConfig holds configuration for the label matcher
type MatchConfig struct {
	NameThreshold       float64
	BrandThreshold      float64
	SupportingThreshold float64
}

// LabelMatcher resolves noisy OCR label text to catalog products using
// edit-distance similarity on the product and brand names.
type LabelMatcher struct {
	nameThreshold       float64
	brandThreshold      float64
	supportingThreshold float64
}

// NewLabelMatcher creates a new label matcher with the given configuration
func NewLabelMatcher(config MatchConfig) *LabelMatcher {
	nameThreshold := config.NameThreshold
	if nameThreshold <= 0 {
		nameThreshold = defaultNameThreshold
	}

	brandThreshold := config.BrandThreshold
	if brandThreshold <= 0 {
		brandThreshold = defaultBrandThreshold
	}

	supportingThreshold := config.SupportingThreshold
	if supportingThreshold <= 0 {
		supportingThreshold = defaultSupportingThreshold
	}

	return &LabelMatcher{
		nameThreshold:       nameThreshold,
		brandThreshold:      brandThreshold,
		supportingThreshold: supportingThreshold,
	}
}

// FindMatches scores every catalog product against the scanned label and
// returns the accepted matches, best first. Ties keep catalog order. The
// caller caps the list for display; the full count matters for reporting.
func (m *LabelMatcher) FindMatches(ctx context.Context, query domain.ScanQuery, products []domain.Product) ([]domain.LabelMatch, error) {
	searchName := strings.ToLower(strings.TrimSpace(query.ProductName))
	searchBrand := strings.ToLower(strings.TrimSpace(query.Brand))

	matches := make([]domain.LabelMatch, 0)
	for _, product := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		nameSimilarity := similarityRatio(searchName, strings.ToLower(product.Name))
		brandSimilarity := similarityRatio(searchBrand, strings.ToLower(product.Brand))

		accepted := nameSimilarity > m.nameThreshold ||
			(brandSimilarity > m.brandThreshold && nameSimilarity > m.supportingThreshold)
		if !accepted {
			continue
		}

		score := nameSimilarity
		if brandSimilarity > score {
			score = brandSimilarity
		}

		matches = append(matches, domain.LabelMatch{
			ProductName:     product.Name,
			BrandName:       product.Brand,
			Ingredients:     product.Ingredients,
			Price:           product.Price,
			Rating:          product.Rating,
			PrimaryCategory: product.PrimaryCategory,
			SimilarityScore: math.Round(score*100) / 100,
			MatchType:       labelMatchType,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	return matches, nil
}

// similarityRatio maps the edit distance between two strings onto 0..1,
// where 1 means identical.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshteinDistance(a, b))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
