package domain

import "time"

// DupeVerdict is the outcome of the dupe qualification policy for one target:
// either a valid economic dupe with qualifying alternatives, or an explicit
// "no economic dupe" signal carrying the highest-similarity candidate instead.
type DupeVerdict struct {
	FoundCheaperDupe bool           `json:"found_cheaper_dupe"`
	BestDupe         *SearchResult  `json:"best_dupe,omitempty"`
	Alternatives     []SearchResult `json:"alternatives"`
	Message          string         `json:"message,omitempty"`
}

// ProductIdentification holds the classified identity of an analyzed product
type ProductIdentification struct {
	ProductName      string `json:"product_name"`
	Brand            string `json:"brand"`
	DetectedCategory string `json:"detected_category"`
	PrimaryCategory  string `json:"primary_category"`
}

// SafetyReport lists hazard hits per watch list plus an overall grade
type SafetyReport struct {
	Comedogenic []string `json:"comedogenic"`
	Irritants   []string `json:"irritants"`
	CheckList   []string `json:"check_list"`
	SafetyScore string   `json:"safety_score"`
}

// MarketAnalysis summarizes pricing across similar catalog products
type MarketAnalysis struct {
	AverageSimilarPrice float64 `json:"average_similar_price"`
	SimilarCount        int     `json:"similar_count"`
}

// ProductReport is the full analysis returned for one product
type ProductReport struct {
	Identification      ProductIdentification `json:"identification"`
	IngredientsAnalysis SafetyReport          `json:"ingredients_analysis"`
	MarketAnalysis      MarketAnalysis        `json:"market_analysis"`
	TopSimilarProducts  []SearchResult        `json:"top_similar_products"`
}

// ReviewAnalysis is the sentiment verdict for a single review text
type ReviewAnalysis struct {
	Sentiment         string  `json:"sentiment"`
	Confidence        float64 `json:"confidence"`
	SkinTypeMentioned string  `json:"skin_type_mentioned"`
}

// ScannedLabel echoes the label text the scan request carried
type ScannedLabel struct {
	Brand       string `json:"brand"`
	ProductName string `json:"product_name"`
}

// LabelMatchSet holds every catalog match for a scanned label. Count covers
// all matches even when Matches is capped for display.
type LabelMatchSet struct {
	Count   int          `json:"count"`
	Matches []LabelMatch `json:"matches"`
}

// ScanResult is the outcome of resolving scanned label text against the
// catalog. Analysis is only present when a match was found; otherwise
// Warning and Suggestion tell the client what to try next.
type ScanResult struct {
	Success         bool           `json:"success"`
	Scanned         ScannedLabel   `json:"scanned"`
	DatabaseMatches LabelMatchSet  `json:"database_matches"`
	Analysis        *ProductReport `json:"analysis,omitempty"`
	Warning         string         `json:"warning,omitempty"`
	Suggestion      string         `json:"suggestion,omitempty"`
}

// Favorite represents a product saved by the user. Deduplicated by
// name+brand; the ID is assigned server-side.
type Favorite struct {
	ID              string    `json:"id"`
	ProductName     string    `json:"product_name" binding:"required"`
	BrandName       string    `json:"brand_name" binding:"required"`
	Price           float64   `json:"price"`
	Similarity      float64   `json:"similarity"`
	PrimaryCategory string    `json:"primary_category"`
	AddedAt         time.Time `json:"added_at,omitempty"`
}
