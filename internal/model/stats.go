package model

// ProductStats is the positivity summary of one product.
type ProductStats struct {
	ProductID      int     `json:"product_id" yaml:"product_id"`
	PositivityRate float64 `json:"positivity_rate" yaml:"positivity_rate"`
	ReviewCount    int     `json:"review_count" yaml:"review_count"`
}

// LanguageCount is the number of reviews detected in one language.
type LanguageCount struct {
	Language string `json:"language" yaml:"language"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Count    int    `json:"count" yaml:"count"`
}

// Summary holds top-level totals over a set of enriched reviews.
type Summary struct {
	Total          int     `json:"total" yaml:"total"`
	Positive       int     `json:"positive" yaml:"positive"`
	Negative       int     `json:"negative" yaml:"negative"`
	PositivityRate float64 `json:"positivity_rate" yaml:"positivity_rate"`
}
