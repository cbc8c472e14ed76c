package models

// Match type tags for SearchResult. Tagged variants, not a hierarchy.
const (
	MatchTypeHybridRRF  = "hybrid_rrf"
	MatchTypeSemantic   = "semantic"
	MatchTypeIngredient = "ingredient"
)

// SearchResult is one ranked hit from the vector index.
type SearchResult struct {
	RecipeName  string  `json:"recipeName"`
	Score       float32 `json:"score"`
	CuisineType string  `json:"cuisineType"`
	MatchType   string  `json:"matchType"`
}

// SubstitutionSuggestion is one LLM-proposed replacement for a missing
// ingredient. InFridge marks candidates already coverable from the pantry.
type SubstitutionSuggestion struct {
	OriginalIngredient string  `json:"originalIngredient"`
	Substitute         string  `json:"substitute"`
	InFridge           bool    `json:"inFridge"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
}

// MissingIngredientsReport summarizes how far the pantry is from covering a
// recipe. TotalRequired of zero means full coverage.
type MissingIngredientsReport struct {
	RecipeName         string   `json:"recipeName"`
	MissingIngredients []string `json:"missingIngredients"`
	TotalRequired      int      `json:"totalRequired"`
	CoveragePercent    float64  `json:"coveragePercent"`
}
