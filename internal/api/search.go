package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/service"
)

// SearchHandler serves semantic, hybrid and almost-cookable discovery plus
// the index admin endpoints.
type SearchHandler struct {
	hybrid   *service.HybridSearchService
	cook     *service.CookabilityService
	indexer  *service.SearchIndexer
	index    service.VectorIndex
	cache    service.SearchCache
	embedder service.Embedder
	logger   *zap.SugaredLogger
}

func NewSearchHandler(
	hybrid *service.HybridSearchService,
	cook *service.CookabilityService,
	indexer *service.SearchIndexer,
	index service.VectorIndex,
	cache service.SearchCache,
	embedder service.Embedder,
	logger *zap.SugaredLogger,
) *SearchHandler {
	return &SearchHandler{
		hybrid:   hybrid,
		cook:     cook,
		indexer:  indexer,
		index:    index,
		cache:    cache,
		embedder: embedder,
		logger:   logger,
	}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipes/search", h.Search)
	router.POST("/recipes/hybrid-search", h.HybridSearch)
	router.GET("/recipes/almost-cookable", h.AlmostCookable)
	router.POST("/search/index-all", h.IndexAll)
	router.GET("/search/stats", h.Stats)
}

// Search answers GET /api/recipes/search?query=...&limit=10 with
// single-vector semantic search.
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if !h.hybrid.Available() {
		c.JSON(http.StatusOK, gin.H{
			"results": []interface{}{},
			"warning": "Semantic search is not available. Make sure the vector index and embedding endpoint are running.",
		})
		return
	}

	results := h.hybrid.SearchSimilar(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// HybridSearch answers POST /api/recipes/hybrid-search. With the vector
// stack down it degrades to the deterministic cookability path, tagged
// "exact", under a warning.
func (h *SearchHandler) HybridSearch(c *gin.Context) {
	var req HybridSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Ingredients) == 0 && strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either ingredients or query is required"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be between 0.0 and 1.0"})
		return
	}

	if !h.hybrid.Available() {
		cookable, err := h.cook.FindCookableFromFridge(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		fallback := make([]gin.H, 0, len(cookable))
		for _, name := range cookable {
			fallback = append(fallback, gin.H{"recipeName": name, "matchType": "exact"})
		}
		c.JSON(http.StatusOK, gin.H{
			"results": fallback,
			"warning": "Semantic search unavailable, showing exact matches only",
		})
		return
	}

	results, err := h.hybrid.HybridSearch(c.Request.Context(), req.Ingredients, req.Query, req.Limit, req.Threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// AlmostCookable answers GET /api/recipes/almost-cookable?maxMissing=2.
func (h *SearchHandler) AlmostCookable(c *gin.Context) {
	maxMissing := 2
	if raw := c.Query("maxMissing"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxMissing must be an integer"})
			return
		}
		maxMissing = parsed
	}

	almost, err := h.cook.FindAlmostCookable(c.Request.Context(), maxMissing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes":    almost,
		"count":      len(almost),
		"maxMissing": maxMissing,
	})
}

// IndexAll answers POST /api/search/index-all, rebuilding the derived
// vector projection from the relational store.
func (h *SearchHandler) IndexAll(c *gin.Context) {
	if !h.indexer.Available() {
		c.JSON(http.StatusOK, gin.H{
			"warning": "Vector search is not available. Make sure the vector index and embedding endpoint are running.",
		})
		return
	}

	count, err := h.indexer.IndexAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Indexed recipes for semantic search", "count": count})
}

// Stats answers GET /api/search/stats with collection counters and the
// availability booleans.
func (h *SearchHandler) Stats(c *gin.Context) {
	stats := h.index.Stats(c.Request.Context())
	stats["embeddingAvailable"] = h.embedder.Available()
	stats["cacheAvailable"] = h.cache.Available()
	c.JSON(http.StatusOK, stats)
}
