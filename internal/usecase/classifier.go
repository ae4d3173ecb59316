package usecase

import (
	"regexp"
	"strings"

	"github.com/pureskin/dupefinder/internal/domain"
)

// categoryRule pairs one compiled pattern with the label it assigns
type categoryRule struct {
	pattern *regexp.Regexp
	label   string
}

// primaryCategoryRules are evaluated first-match-wins; anything unmatched
// defaults to Skincare. Patterns keep the French synonyms the catalog carries.
var primaryCategoryRules = []categoryRule{
	{regexp.MustCompile(`\b(shampoo|conditioner|hair|cheveux|scalp)\b`), domain.CategoryHaircare},
	{regexp.MustCompile(`\b(foundation|makeup|maquillage|lipstick|mascara)\b`), domain.CategoryMakeup},
	{regexp.MustCompile(`\b(shower gel|body wash|savon|soap|body)\b`), domain.CategoryBodycare},
	{regexp.MustCompile(`\b(parfum|perfume|fragrance|scent)\b`), domain.CategoryFragrance},
}

// secondaryCategoryRules detect the product type; first match wins and
// "unknown" is assigned when none hit
var secondaryCategoryRules = []categoryRule{
	{regexp.MustCompile(`\b(cream|crème|moisturizer|hydratant|lotion|balm|baume)\b`), "cream"},
	{regexp.MustCompile(`\b(serum|sérum|concentrate|concentré|ampoule)\b`), "serum"},
	{regexp.MustCompile(`\b(cleanser|nettoyant|wash|gel nettoyant|mousse|micellar)\b`), "cleanser"},
	{regexp.MustCompile(`\b(toner|tonique|lotion tonique)\b`), "toner"},
	{regexp.MustCompile(`\b(mask|masque|patch)\b`), "mask"},
	{regexp.MustCompile(`\b(sunscreen|spf|écran|solaire|uv)\b`), "sunscreen"},
	{regexp.MustCompile(`\b(oil|huile)\b`), "oil"},
	{regexp.MustCompile(`\b(scrub|gommage|exfoliant|peeling)\b`), "scrub"},
}

// CategoryClassifier derives primary and secondary category labels from a
// product's name and ingredient text. Deterministic, no external state.
type CategoryClassifier struct{}

// NewCategoryClassifier creates a new category classifier
func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{}
}

// Classify returns the primary and secondary category for a product.
// Name and ingredients are concatenated so type words in either field count.
func (c *CategoryClassifier) Classify(name, ingredients string) (string, string) {
	text := strings.ToLower(name + " " + ingredients)

	primary := domain.CategorySkincare
	for _, rule := range primaryCategoryRules {
		if rule.pattern.MatchString(text) {
			primary = rule.label
			break
		}
	}

	secondary := domain.SecondaryUnknown
	for _, rule := range secondaryCategoryRules {
		if rule.pattern.MatchString(text) {
			secondary = rule.label
			break
		}
	}

	return primary, secondary
}
