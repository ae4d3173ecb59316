package usecase

import (
	"regexp"
	"strings"
)

// unknownIngredients is the sentinel returned when normalization filters out
// everything; downstream code never sees an empty normalized string
const unknownIngredients = "unknown"

// IngredientNormalizer canonicalizes raw INCI ingredient text into the
// comparable form used for embedding and cache keys
type IngredientNormalizer struct{}

// Compiled patterns for ingredient normalization
var (
	// Matches concentration tokens like "10%", "2.5%"
	concentrationPattern = regexp.MustCompile(`\d+(\.\d+)?%`)

	// Strips characters outside the chemistry-friendly set
	ingredientCharsPattern = regexp.MustCompile(`[^a-z0-9 /()+-]`)
)

// ingredientSynonyms folds frequent INCI aliases onto one canonical spelling
var ingredientSynonyms = strings.NewReplacer(
	"aqua", "water",
	"eau", "water",
	"parfum", "fragrance",
	"alcohol denat.", "alcohol",
	"l-ascorbic acid", "ascorbic acid",
	"tocopherol", "vitamin e",
)

// ingredientNoiseWords are near-universal fillers that carry no signal for
// formulation similarity
var ingredientNoiseWords = map[string]bool{
	"water":          true,
	"glycerin":       true,
	"glycerine":      true,
	"phenoxyethanol": true,
	"alcohol":        true,
}

// NewIngredientNormalizer creates a new ingredient normalizer
func NewIngredientNormalizer() *IngredientNormalizer {
	return &IngredientNormalizer{}
}

// Normalize cleans a raw INCI ingredient list for vector analysis.
// Pure function: identical input always yields identical output, and the
// output is never empty.
func (n *IngredientNormalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return unknownIngredients
	}

	text := strings.ToLower(raw)

	// Step 1: fold synonyms onto canonical spellings
	text = ingredientSynonyms.Replace(text)

	// Step 2: strip concentration tokens (10%, 2.5%)
	text = concentrationPattern.ReplaceAllString(text, "")

	// Step 3: split into ingredient parts
	parts := strings.Split(text, ",")

	// Step 4: per-part charset cleanup, then drop noise and fragments
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = ingredientCharsPattern.ReplaceAllString(strings.TrimSpace(part), "")
		part = strings.TrimSpace(part)
		if len(part) <= 2 || ingredientNoiseWords[part] {
			continue
		}
		cleaned = append(cleaned, part)
	}

	if len(cleaned) == 0 {
		return unknownIngredients
	}

	// No artificial token duplication: the encoder captures whole-formula
	// context, so no term is repeated to inflate its weight.
	return strings.Join(cleaned, " ")
}
