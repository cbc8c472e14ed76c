package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SearchIndexer projects recipes from the relational store into the vector
// index. The index is derived state: losing it is tolerable and IndexAll
// rebuilds it.
type SearchIndexer struct {
	store    *RecipeService
	embedder Embedder
	sparse   *SparseEmbedder
	index    VectorIndex
	logger   *zap.SugaredLogger
}

func NewSearchIndexer(store *RecipeService, embedder Embedder, sparse *SparseEmbedder, index VectorIndex, logger *zap.SugaredLogger) *SearchIndexer {
	return &SearchIndexer{
		store:    store,
		embedder: embedder,
		sparse:   sparse,
		index:    index,
		logger:   logger,
	}
}

// Available reports whether indexing can run at all.
func (s *SearchIndexer) Available() bool {
	return s.index.Available() && s.embedder.Available()
}

// IndexRecipe embeds one stored recipe and upserts its point with both
// named vectors. Runs after the relational commit; failures are logged by
// callers and never roll the write back.
func (s *SearchIndexer) IndexRecipe(ctx context.Context, recipeName string) error {
	if !s.index.Available() {
		return fmt.Errorf("vector index unavailable")
	}

	details, err := s.store.GetRecipeDetails(ctx, recipeName)
	if err != nil {
		return fmt.Errorf("failed to load recipe %q for indexing: %w", recipeName, err)
	}

	text := s.embedder.BuildRecipeText(details.Name, details.Ingredients, details.CuisineType, details.Instructions)
	dense, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed recipe %q: %w", recipeName, err)
	}

	sparseVec := s.sparse.FromRecipe(details.Name, details.Ingredients, details.CuisineType)

	payload := RecipePayload{
		RecipeName:   details.Name,
		CuisineType:  details.CuisineType,
		Ingredients:  details.Ingredients,
		ModelVersion: s.embedder.ModelVersion(),
	}
	if err := s.index.UpsertRecipe(ctx, details.Name, dense, sparseVec, payload); err != nil {
		return err
	}
	s.logger.Infow("indexed recipe", "recipe", recipeName)
	return nil
}

// IndexAll reindexes every stored recipe and returns how many succeeded.
func (s *SearchIndexer) IndexAll(ctx context.Context) (int, error) {
	names, err := s.store.ListRecipeNames(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range names {
		if err := s.IndexRecipe(ctx, name); err != nil {
			s.logger.Errorw("failed to index recipe", "recipe", name, "error", err)
			continue
		}
		count++
	}
	s.logger.Infow("reindexed recipes", "count", count, "total", len(names))
	return count, nil
}

// RemoveRecipe drops a recipe's point from the index.
func (s *SearchIndexer) RemoveRecipe(ctx context.Context, recipeName string) error {
	return s.index.DeletePoint(ctx, recipeName)
}
