package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartfridge-backend/internal/models"
)

type fakeEmbedder struct {
	available bool
	calls     int
	vector    []float32
	err       error
}

func (f *fakeEmbedder) Available() bool { return f.available }

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) BuildRecipeText(name string, ingredients []string, cuisineType, instructions string) string {
	return "Recipe: " + name + ". Ingredients: " + strings.Join(ingredients, ", ")
}

func (f *fakeEmbedder) ModelVersion() string { return "fake-embed" }
func (f *fakeEmbedder) Dimension() int       { return 3 }

type fakeIndex struct {
	available     bool
	hybridResults []models.SearchResult
	hybridErr     error
	simpleResults []models.SearchResult
	lastPrefetch  []PrefetchQuery
	lastLimit     int
}

func (f *fakeIndex) Available() bool                          { return f.available }
func (f *fakeIndex) EnsureCollection(ctx context.Context) error { return nil }

func (f *fakeIndex) UpsertRecipe(ctx context.Context, name string, dense []float32, sparse SparseVector, payload RecipePayload) error {
	return nil
}

func (f *fakeIndex) DeletePoint(ctx context.Context, name string) error { return nil }

func (f *fakeIndex) SimpleSearch(ctx context.Context, dense []float32, topK int, minScore float32) ([]models.SearchResult, error) {
	return f.simpleResults, nil
}

func (f *fakeIndex) HybridQuery(ctx context.Context, prefetch []PrefetchQuery, limit int) ([]models.SearchResult, error) {
	f.lastPrefetch = prefetch
	f.lastLimit = limit
	if f.hybridErr != nil {
		return nil, f.hybridErr
	}
	return f.hybridResults, nil
}

func (f *fakeIndex) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"initialized": f.available}
}

type fakeCache struct {
	embeddings map[string][]float32
	searches   map[string][]models.SearchResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		embeddings: make(map[string][]float32),
		searches:   make(map[string][]models.SearchResult),
	}
}

func (f *fakeCache) Available() bool { return true }

func (f *fakeCache) GetEmbedding(ctx context.Context, query string) []float32 {
	return f.embeddings[query]
}

func (f *fakeCache) PutEmbedding(ctx context.Context, query string, embedding []float32) {
	f.embeddings[query] = embedding
}

func (f *fakeCache) GetSearchResults(ctx context.Context, key string) []models.SearchResult {
	return f.searches[key]
}

func (f *fakeCache) PutSearchResults(ctx context.Context, key string, results []models.SearchResult) {
	f.searches[key] = results
}

func (f *fakeCache) BuildSearchKey(ingredients []string, query string, topK int, threshold float32) string {
	return strings.Join(ingredients, ",") + "|" + query
}

func setupHybrid(t *testing.T, embedder *fakeEmbedder, index *fakeIndex, cache SearchCache) *HybridSearchService {
	resolver := NewIngredientResolver(setupTestDB(t), nil, testLogger())
	return NewHybridSearchService(embedder, NewSparseEmbedder(), index, cache, resolver, testLogger())
}

func TestHybridSearchRequiresInput(t *testing.T) {
	svc := setupHybrid(t, &fakeEmbedder{}, &fakeIndex{}, newFakeCache())

	_, err := svc.HybridSearch(context.Background(), nil, "   ", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHybridSearchThresholdAndTopK(t *testing.T) {
	index := &fakeIndex{
		available: true,
		hybridResults: []models.SearchResult{
			{RecipeName: "a", Score: 0.9, MatchType: models.MatchTypeHybridRRF},
			{RecipeName: "b", Score: 0.5, MatchType: models.MatchTypeHybridRRF},
			{RecipeName: "c", Score: 0.4, MatchType: models.MatchTypeHybridRRF},
			{RecipeName: "d", Score: 0.1, MatchType: models.MatchTypeHybridRRF},
		},
	}
	embedder := &fakeEmbedder{available: true, vector: []float32{1, 2, 3}}
	svc := setupHybrid(t, embedder, index, newFakeCache())

	results, err := svc.HybridSearch(context.Background(), []string{"chicken"}, "quick dinner", 2, 0.3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].RecipeName)
	assert.Equal(t, "b", results[1].RecipeName)
	assert.Equal(t, models.MatchTypeHybridRRF, results[0].MatchType)

	// Both prefetch legs were assembled, limit = max(2*topK, 50).
	require.Len(t, index.lastPrefetch, 2)
	assert.Equal(t, "dense", index.lastPrefetch[0].Using)
	assert.Equal(t, "sparse", index.lastPrefetch[1].Using)
	assert.Equal(t, 50, index.lastLimit)
}

func TestHybridSearchCacheHitSkipsEmbedding(t *testing.T) {
	index := &fakeIndex{available: true, hybridResults: []models.SearchResult{
		{RecipeName: "cached-out", Score: 0.8, MatchType: models.MatchTypeHybridRRF},
	}}
	embedder := &fakeEmbedder{available: true, vector: []float32{1}}
	cache := newFakeCache()
	svc := setupHybrid(t, embedder, index, cache)

	first, err := svc.HybridSearch(context.Background(), []string{"chicken"}, "quick dinner", 5, 0.2)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	callsAfterFirst := embedder.calls

	second, err := svc.HybridSearch(context.Background(), []string{"chicken"}, "quick dinner", 5, 0.2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, embedder.calls, "second identical search must not embed again")
}

func TestHybridSearchEmbeddingCacheAside(t *testing.T) {
	index := &fakeIndex{available: true}
	embedder := &fakeEmbedder{available: true, vector: []float32{1, 2}}
	cache := newFakeCache()
	svc := setupHybrid(t, embedder, index, cache)

	_, err := svc.HybridSearch(context.Background(), nil, "dinner", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, cache.embeddings["dinner"])
}

func TestHybridSearchFallsBackOnIndexError(t *testing.T) {
	index := &fakeIndex{
		available: true,
		hybridErr: errors.New("prefetch unsupported"),
		simpleResults: []models.SearchResult{
			{RecipeName: "chicken curry", Score: 0.7, MatchType: models.MatchTypeSemantic},
		},
	}
	embedder := &fakeEmbedder{available: true, vector: []float32{1}}
	svc := setupHybrid(t, embedder, index, newFakeCache())

	results, err := svc.HybridSearch(context.Background(), nil, "chicken curry", 5, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.MatchTypeSemantic, results[0].MatchType)
}

func TestHybridSearchNoPrefetchUsesLegacy(t *testing.T) {
	// Embedder down and ingredient tokens all filtered: nothing to prefetch.
	index := &fakeIndex{available: true}
	embedder := &fakeEmbedder{available: false}
	svc := setupHybrid(t, embedder, index, newFakeCache())

	results, err := svc.HybridSearch(context.Background(), []string{"a"}, "", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestLegacySearchDedupesAndSorts(t *testing.T) {
	index := &fakeIndex{
		available: true,
		simpleResults: []models.SearchResult{
			{RecipeName: "chicken soup", Score: 0.9, MatchType: models.MatchTypeSemantic},
			{RecipeName: "chicken pie", Score: 0.6, MatchType: models.MatchTypeSemantic},
		},
	}
	embedder := &fakeEmbedder{available: true, vector: []float32{1}}
	svc := setupHybrid(t, embedder, index, newFakeCache())

	results := svc.legacySearch(context.Background(), []string{"chicken"}, "chicken", 10, 0)

	// Both passes return the same hits; first occurrence wins the tag.
	require.Len(t, results, 2)
	assert.Equal(t, models.MatchTypeSemantic, results[0].MatchType)
	assert.Equal(t, "chicken soup", results[0].RecipeName)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchSimilarKeywordFilter(t *testing.T) {
	index := &fakeIndex{
		available: true,
		simpleResults: []models.SearchResult{
			{RecipeName: "chicken curry", Score: 0.9},
			{RecipeName: "beef stew", Score: 0.8},
		},
	}
	embedder := &fakeEmbedder{available: true, vector: []float32{1}}
	svc := setupHybrid(t, embedder, index, newFakeCache())

	results := svc.SearchSimilar(context.Background(), "chicken dinner", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "chicken curry", results[0].RecipeName)
}

func TestContainsImportantKeywords(t *testing.T) {
	assert.True(t, containsImportantKeywords("chicken curry", "spicy chicken"))
	assert.False(t, containsImportantKeywords("beef stew", "spicy chicken"))
	// Only short/stop words: keep everything.
	assert.True(t, containsImportantKeywords("beef stew", "how to eat"))
	assert.True(t, containsImportantKeywords("beef stew", ""))
	// Punctuation is stripped before matching.
	assert.True(t, containsImportantKeywords("pasta carbonara", "Carbonara!"))
}
