package domain

// SearchQuery carries one similarity search over the product index.
// Zero values mean "no constraint": an empty Primary or the literal "All"
// skips category filtering, an empty Secondary or "unknown" skips type
// filtering, and a non-positive PriceCeiling disables the price filter.
type SearchQuery struct {
	Ingredients  string  `json:"ingredients" binding:"required"`
	TopN         int     `json:"top_n"`
	Primary      string  `json:"primary_category"`
	Secondary    string  `json:"secondary_category"`
	PriceCeiling float64 `json:"price_ceiling"`
}

// DupeQuery asks for cheaper products with a similar ingredient profile.
// TargetPrice is the reference product's price; non-positive disables the
// cheaper-than test so any sufficiently similar product qualifies.
type DupeQuery struct {
	Ingredients string  `json:"ingredients" binding:"required"`
	TargetPrice float64 `json:"target_price"`
	Primary     string  `json:"primary_category"`
	Secondary   string  `json:"secondary_category"`
	TopN        int     `json:"top_n"`
}

// QualityQuery identifies the product whose full report is requested.
type QualityQuery struct {
	ProductName string `json:"product_name" binding:"required"`
	BrandName   string `json:"brand_name"`
	Ingredients string `json:"ingredients"`
}

// ScanQuery carries label text extracted from a product photo by the
// mobile client's OCR step.
type ScanQuery struct {
	Brand       string `json:"brand"`
	ProductName string `json:"product_name" binding:"required"`
}

// RecommendQuery filters the catalog by skin type and budget. MaxPrice is
// a pointer so that an absent field and an explicit zero stay distinct.
type RecommendQuery struct {
	SkinType string   `json:"skin_type" binding:"required"`
	MaxPrice *float64 `json:"max_price"`
	Category string   `json:"category"`
}

// ReviewQuery holds free-form review text for sentiment analysis.
type ReviewQuery struct {
	Text     string `json:"text" binding:"required"`
	SkinType string `json:"skin_type"`
}
