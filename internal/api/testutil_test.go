package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/smartfridge-backend/internal/api"
	"github.com/pageza/smartfridge-backend/internal/models"
	"github.com/pageza/smartfridge-backend/internal/router"
	"github.com/pageza/smartfridge-backend/internal/service"
)

// offlineEmbedder stands in for the embedding endpoint being down.
type offlineEmbedder struct{}

func (offlineEmbedder) Available() bool { return false }

func (offlineEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, context.DeadlineExceeded
}

func (offlineEmbedder) BuildRecipeText(name string, ingredients []string, cuisineType, instructions string) string {
	return "Recipe: " + name
}

func (offlineEmbedder) ModelVersion() string { return "offline" }
func (offlineEmbedder) Dimension() int       { return 0 }

// offlineIndex stands in for the vector store being down.
type offlineIndex struct{}

func (offlineIndex) Available() bool                            { return false }
func (offlineIndex) EnsureCollection(ctx context.Context) error { return nil }

func (offlineIndex) UpsertRecipe(ctx context.Context, name string, dense []float32, sparse service.SparseVector, payload service.RecipePayload) error {
	return nil
}

func (offlineIndex) DeletePoint(ctx context.Context, name string) error { return nil }

func (offlineIndex) SimpleSearch(ctx context.Context, dense []float32, topK int, minScore float32) ([]models.SearchResult, error) {
	return []models.SearchResult{}, nil
}

func (offlineIndex) HybridQuery(ctx context.Context, prefetch []service.PrefetchQuery, limit int) ([]models.SearchResult, error) {
	return []models.SearchResult{}, nil
}

func (offlineIndex) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"initialized": false, "collectionName": "recipes_v2"}
}

// setupTestRouter wires the full route table over an in-memory database
// with the vector stack offline, mirroring the degraded deployment mode.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.FoodItem{},
		&models.RecipeDependency{},
		&models.RecipeDetail{},
		&models.Supply{},
		&models.IngredientAlias{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := zap.NewNop().Sugar()
	embedder := offlineEmbedder{}
	index := offlineIndex{}
	sparse := service.NewSparseEmbedder()
	cache := service.NewVectorCacheService(nil, 3600, logger)

	store := service.NewRecipeService(db, logger)
	resolver := service.NewIngredientResolver(db, nil, logger)
	cook := service.NewCookabilityService(store, resolver, logger)
	indexer := service.NewSearchIndexer(store, embedder, sparse, index, logger)
	hybrid := service.NewHybridSearchService(embedder, sparse, index, cache, resolver, logger)
	planner := service.NewSubstitutionService(store, resolver, nil, logger)
	llm := service.NewLLMService("http://127.0.0.1:1", "test-key", "test-model", nil, logger)

	engine := router.SetupRouter(
		api.NewRecipeHandler(store, cook, indexer, llm, logger),
		api.NewFridgeHandler(store, logger),
		api.NewSearchHandler(hybrid, cook, indexer, index, cache, embedder, logger),
		api.NewIngredientHandler(resolver, logger),
		api.NewSubstitutionHandler(planner, logger),
	)
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}
