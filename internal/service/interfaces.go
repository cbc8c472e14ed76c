package service

import (
	"context"

	"github.com/pageza/smartfridge-backend/internal/models"
)

// Embedder produces dense embeddings from an external model endpoint.
type Embedder interface {
	Available() bool
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	BuildRecipeText(name string, ingredients []string, cuisineType, instructions string) string
	ModelVersion() string
	Dimension() int
}

// VectorIndex is the client contract against the external vector store.
// All operations are best-effort: implementations log and return empty
// results rather than failing the request.
type VectorIndex interface {
	Available() bool
	EnsureCollection(ctx context.Context) error
	UpsertRecipe(ctx context.Context, name string, dense []float32, sparse SparseVector, payload RecipePayload) error
	DeletePoint(ctx context.Context, name string) error
	SimpleSearch(ctx context.Context, dense []float32, topK int, minScore float32) ([]models.SearchResult, error)
	HybridQuery(ctx context.Context, prefetch []PrefetchQuery, limit int) ([]models.SearchResult, error)
	Stats(ctx context.Context) map[string]interface{}
}

// SearchCache is the cache-aside layer for embeddings and search results.
// Every method must be a safe no-op when the backend is unreachable.
type SearchCache interface {
	Available() bool
	GetEmbedding(ctx context.Context, query string) []float32
	PutEmbedding(ctx context.Context, query string, embedding []float32)
	GetSearchResults(ctx context.Context, key string) []models.SearchResult
	PutSearchResults(ctx context.Context, key string, results []models.SearchResult)
	BuildSearchKey(ingredients []string, query string, topK int, threshold float32) string
}

// AliasGenerator is the LLM boundary used by the ingredient resolver.
type AliasGenerator interface {
	GenerateIngredientAliases(ctx context.Context, ingredient string) ([]string, error)
}

// SubstitutionProvider is the LLM boundary used by the substitution planner.
type SubstitutionProvider interface {
	SuggestSubstitutions(ctx context.Context, req SubstitutionRequest) ([]SubstitutionCandidate, error)
}

// SubstitutionRequest conditions the LLM on the recipe context so proposals
// prefer what is already in the pantry.
type SubstitutionRequest struct {
	Ingredient        string   `json:"ingredient"`
	Cuisine           string   `json:"cuisine"`
	RecipeIngredients []string `json:"recipeIngredients"`
	FridgeSupplies    []string `json:"fridgeSupplies"`
}

// SubstitutionCandidate is the raw LLM proposal before pantry annotation.
type SubstitutionCandidate struct {
	Ingredient string  `json:"ingredient"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// RecipePayload is stored alongside each point in the vector index.
type RecipePayload struct {
	RecipeName   string   `json:"recipe_name"`
	CuisineType  string   `json:"cuisine_type"`
	Ingredients  []string `json:"ingredients"`
	ModelVersion string   `json:"model_version"`
}

// PrefetchQuery is one sub-query of a hybrid RRF request. Exactly one of
// Dense or Sparse is set, selected by Using.
type PrefetchQuery struct {
	Using  string
	Dense  []float32
	Sparse *SparseVector
	Limit  int
}
