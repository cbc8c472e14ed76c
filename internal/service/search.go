package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/models"
)

const simpleSearchMinScore = 0.5

var keywordStopWords = map[string]struct{}{
	"with": {}, "and": {}, "the": {}, "for": {}, "recipe": {}, "dish": {},
	"food": {}, "make": {}, "cook": {}, "how": {}, "to": {}, "is": {},
	"in": {}, "on": {}, "at": {},
}

// HybridSearchService orchestrates the embedder, sparse encoder, vector
// index and cache into one ranked result list fused by reciprocal rank.
type HybridSearchService struct {
	embedder Embedder
	sparse   *SparseEmbedder
	index    VectorIndex
	cache    SearchCache
	resolver *IngredientResolver
	logger   *zap.SugaredLogger
}

func NewHybridSearchService(
	embedder Embedder,
	sparse *SparseEmbedder,
	index VectorIndex,
	cache SearchCache,
	resolver *IngredientResolver,
	logger *zap.SugaredLogger,
) *HybridSearchService {
	return &HybridSearchService{
		embedder: embedder,
		sparse:   sparse,
		index:    index,
		cache:    cache,
		resolver: resolver,
		logger:   logger,
	}
}

// Available reports whether the full hybrid path can run.
func (s *HybridSearchService) Available() bool {
	return s.index.Available() && s.embedder.Available()
}

// HybridSearch runs the cache-first hybrid pipeline: dense prefetch from
// the query, sparse prefetch from the ingredients, server-side RRF fusion,
// client-side threshold walk. Requires at least one of ingredients/query.
func (s *HybridSearchService) HybridSearch(ctx context.Context, ingredients []string, query string, topK int, threshold float32) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(ingredients) == 0 && query == "" {
		return nil, fmt.Errorf("%w: either ingredients or query is required", ErrInvalidArgument)
	}

	cacheKey := s.cache.BuildSearchKey(s.resolver.ResolveAll(ingredients), query, topK, threshold)
	if cached := s.cache.GetSearchResults(ctx, cacheKey); cached != nil {
		s.logger.Debugw("hybrid search cache hit", "key", cacheKey)
		return cached, nil
	}

	prefetch := make([]PrefetchQuery, 0, 2)
	if query != "" {
		if dense := s.queryEmbedding(ctx, query); dense != nil {
			prefetch = append(prefetch, PrefetchQuery{Using: "dense", Dense: dense, Limit: prefetchLimit})
		}
	}
	if len(ingredients) > 0 {
		sparseVec := s.sparse.FromIngredients(ingredients)
		if !sparseVec.IsEmpty() {
			prefetch = append(prefetch, PrefetchQuery{Using: "sparse", Sparse: &sparseVec, Limit: prefetchLimit})
		}
	}

	if len(prefetch) == 0 {
		s.logger.Warn("no usable prefetch queries, falling back to legacy search")
		results := s.legacySearch(ctx, ingredients, query, topK, threshold)
		if len(results) > 0 {
			s.cache.PutSearchResults(ctx, cacheKey, results)
		}
		return results, nil
	}

	limit := 2 * topK
	if limit < prefetchLimit {
		limit = prefetchLimit
	}
	fused, err := s.index.HybridQuery(ctx, prefetch, limit)
	if err != nil {
		s.logger.Warnw("hybrid query failed, falling back to legacy search", "error", err)
		results := s.legacySearch(ctx, ingredients, query, topK, threshold)
		if len(results) > 0 {
			s.cache.PutSearchResults(ctx, cacheKey, results)
		}
		return results, nil
	}

	results := []models.SearchResult{}
	for _, result := range fused {
		if result.Score < threshold {
			continue
		}
		results = append(results, result)
		if len(results) >= topK {
			break
		}
	}

	if len(results) > 0 {
		s.cache.PutSearchResults(ctx, cacheKey, results)
	}
	return results, nil
}

// SearchSimilar is the single-vector semantic search behind GET
// /recipes/search: cosine over the dense vector with a fixed relevance
// floor, then the important-keyword name filter.
func (s *HybridSearchService) SearchSimilar(ctx context.Context, query string, topK int) []models.SearchResult {
	dense := s.queryEmbedding(ctx, query)
	if dense == nil {
		return []models.SearchResult{}
	}

	hits, err := s.index.SimpleSearch(ctx, dense, topK, simpleSearchMinScore)
	if err != nil {
		return []models.SearchResult{}
	}

	results := make([]models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if !containsImportantKeywords(hit.RecipeName, query) {
			s.logger.Debugw("filtered hit without keyword match", "recipe", hit.RecipeName, "query", query)
			continue
		}
		results = append(results, hit)
	}
	return results
}

// legacySearch unions two simple searches (semantic from the query,
// ingredient from the joined ingredient list), dedupes by recipe name with
// first occurrence winning, sorts by score and truncates. The keyword
// filter applies here through SearchSimilar; RRF results skip it because
// fusion already weighs sparse keyword evidence.
func (s *HybridSearchService) legacySearch(ctx context.Context, ingredients []string, query string, topK int, threshold float32) []models.SearchResult {
	results := []models.SearchResult{}
	seen := make(map[string]struct{})

	if query != "" {
		for _, result := range s.SearchSimilar(ctx, query, 2*topK) {
			if _, dup := seen[result.RecipeName]; dup || result.Score < threshold {
				continue
			}
			result.MatchType = models.MatchTypeSemantic
			results = append(results, result)
			seen[result.RecipeName] = struct{}{}
		}
	}

	if len(ingredients) > 0 {
		ingredientQuery := strings.Join(ingredients, " ")
		for _, result := range s.SearchSimilar(ctx, ingredientQuery, 2*topK) {
			if _, dup := seen[result.RecipeName]; dup || result.Score < threshold {
				continue
			}
			result.MatchType = models.MatchTypeIngredient
			results = append(results, result)
			seen[result.RecipeName] = struct{}{}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// queryEmbedding is the cache-aside read for query embeddings.
func (s *HybridSearchService) queryEmbedding(ctx context.Context, query string) []float32 {
	if cached := s.cache.GetEmbedding(ctx, query); cached != nil {
		return cached
	}
	if !s.embedder.Available() {
		return nil
	}
	dense, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		s.logger.Errorw("failed to generate query embedding", "error", err)
		return nil
	}
	s.cache.PutEmbedding(ctx, query, dense)
	return dense
}

// containsImportantKeywords keeps a hit only when its name shares at least
// one significant query keyword (length > 3, not a stop word). Queries
// without significant keywords keep everything.
func containsImportantKeywords(recipeName, query string) bool {
	if query == "" {
		return true
	}
	nameLower := strings.ToLower(recipeName)

	important := []string{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		cleaned := strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' {
				return r
			}
			return -1
		}, word)
		if len(cleaned) <= 3 {
			continue
		}
		if _, stop := keywordStopWords[cleaned]; stop {
			continue
		}
		important = append(important, cleaned)
	}
	if len(important) == 0 {
		return true
	}

	for _, keyword := range important {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}
