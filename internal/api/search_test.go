package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartfridge-backend/internal/api"
)

func TestHybridSearchDegradedFallsBackToCookable(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/recipes", api.AddRecipeRequest{
		Name:        "sandwich",
		Ingredients: []string{"bread", "ham"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	for _, item := range []string{"bread", "ham"} {
		w = doJSON(t, engine, "POST", "/api/fridge/"+item, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, engine, "POST", "/api/recipes/hybrid-search", api.HybridSearchRequest{
		Ingredients: []string{"bread"},
		Query:       "quick lunch",
		Limit:       5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body, "warning")
	assert.NotContains(t, body, "error")

	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	hit := results[0].(map[string]interface{})
	assert.Equal(t, "sandwich", hit["recipeName"])
	assert.Equal(t, "exact", hit["matchType"])
}

func TestHybridSearchValidation(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/recipes/hybrid-search", api.HybridSearchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, "POST", "/api/recipes/hybrid-search", api.HybridSearchRequest{
		Query:     "dinner",
		Threshold: 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchDegradedReturnsWarning(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/recipes/search?query=chicken", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "warning")
	assert.Empty(t, body["results"])
}

func TestSearchRequiresQuery(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/recipes/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlmostCookableEndpoint(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/recipes", api.AddRecipeRequest{
		Name:        "omelette",
		Ingredients: []string{"egg", "milk"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, engine, "POST", "/api/fridge/egg", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, "GET", "/api/recipes/almost-cookable?maxMissing=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["maxMissing"])
	recipes := body["recipes"].(map[string]interface{})
	require.Contains(t, recipes, "omelette")
	assert.Equal(t, []interface{}{"milk"}, recipes["omelette"])
}

func TestAlmostCookableBounds(t *testing.T) {
	engine, _ := setupTestRouter(t)

	for _, q := range []string{"0", "6", "-2"} {
		w := doJSON(t, engine, "GET", "/api/recipes/almost-cookable?maxMissing="+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := doJSON(t, engine, "GET", "/api/recipes/almost-cookable?maxMissing=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexAllDegraded(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/search/index-all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w), "warning")
}

func TestStatsExposesAvailability(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "GET", "/api/search/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["initialized"])
	assert.Equal(t, false, body["embeddingAvailable"])
	assert.Equal(t, false, body["cacheAvailable"])
	assert.Equal(t, "recipes_v2", body["collectionName"])
}
