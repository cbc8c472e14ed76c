package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetAliases(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/ingredients/tomato/aliases", map[string]string{
		"alias": "roma tomato",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, "GET", "/api/ingredients/tomato/aliases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "tomato", body["ingredient"])
	assert.Contains(t, body["aliases"], "roma tomato")
}

func TestAddAliasValidation(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/ingredients/tomato/aliases", map[string]string{"alias": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveEndpoint(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/ingredients/tomato/aliases", map[string]string{
		"alias": "roma tomato",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, "GET", "/api/ingredients/roma%20tomato/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "tomato", body["canonical"])
	assert.Equal(t, true, body["resolved"])

	w = doJSON(t, engine, "GET", "/api/ingredients/unknown/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "unknown", body["canonical"])
	assert.Equal(t, false, body["resolved"])
}

func TestSeedAliasesEndpoint(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/ingredients/seed-aliases", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, "GET", "/api/ingredients/capsicum/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bell pepper", decodeBody(t, w)["canonical"])
}

func TestGenerateAliasesWithoutLLMIsEmpty(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, "POST", "/api/ingredients/tomato/generate-aliases", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, body["generated"])
}
