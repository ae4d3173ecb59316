package domain

// Primary categories assigned by the category classifier
const (
	CategorySkincare  = "Skincare"
	CategoryHaircare  = "Haircare"
	CategoryMakeup    = "Makeup"
	CategoryBodycare  = "Bodycare"
	CategoryFragrance = "Fragrance"
)

// PrimaryAll is the filter sentinel that disables primary-category filtering
const PrimaryAll = "All"

// SecondaryUnknown is assigned when no product-type rule matches; as a filter
// value it disables secondary-category filtering
const SecondaryUnknown = "unknown"

// Product represents one cosmetic catalog entry. Numeric fields are coerced
// once at ingestion; category labels are overwritten at index-build time.
type Product struct {
	ID                string  `json:"product_id"`
	Name              string  `json:"product_name"`
	Brand             string  `json:"brand_name"`
	Ingredients       string  `json:"ingredients"`
	Price             float64 `json:"price_usd"`
	Rating            float64 `json:"rating"`
	Reviews           int     `json:"reviews"`
	Highlights        string  `json:"highlights,omitempty"`
	PrimaryCategory   string  `json:"primary_category"`
	SecondaryCategory string  `json:"secondary_category"`
}

// SearchResult represents one ranked catalog entry returned by a similarity search
type SearchResult struct {
	ProductID          string  `json:"product_id"`
	ProductName        string  `json:"product_name"`
	BrandName          string  `json:"brand_name"`
	Price              float64 `json:"price"`
	Similarity         float64 `json:"similarity"`
	SecondaryCategory  string  `json:"secondary_category"`
	Rating             float64 `json:"rating"`
	Reviews            int     `json:"reviews"`
	IngredientsPreview string  `json:"ingredients_preview"`
	SavingsAmount      float64 `json:"savings_amount,omitempty"`
	IsEconomicDupe     bool    `json:"is_economic_dupe,omitempty"`
}

// LabelMatch represents a catalog row matched against scanned label text
type LabelMatch struct {
	ProductName     string  `json:"product_name"`
	BrandName       string  `json:"brand_name"`
	Ingredients     string  `json:"ingredients"`
	Price           float64 `json:"price_usd"`
	Rating          float64 `json:"rating"`
	PrimaryCategory string  `json:"primary_category"`
	SimilarityScore float64 `json:"similarity_score"`
	MatchType       string  `json:"match_type"`
}

// FilterOptions lists the distinct values available for search filtering
type FilterOptions struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Types      []string `json:"types"`
}
