package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/models"
	"github.com/pageza/smartfridge-backend/internal/service"
)

// RecipeHandler serves recipe CRUD, cookability generation and AI-parsed
// submissions.
type RecipeHandler struct {
	store   *service.RecipeService
	cook    *service.CookabilityService
	indexer *service.SearchIndexer
	llm     *service.LLMService
	logger  *zap.SugaredLogger
}

func NewRecipeHandler(
	store *service.RecipeService,
	cook *service.CookabilityService,
	indexer *service.SearchIndexer,
	llm *service.LLMService,
	logger *zap.SugaredLogger,
) *RecipeHandler {
	return &RecipeHandler{store: store, cook: cook, indexer: indexer, llm: llm, logger: logger}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipes", h.ListRecipes)
	router.GET("/recipes/:name", h.GetRecipe)
	router.POST("/recipes", h.AddRecipe)
	router.DELETE("/recipes/:name", h.DeleteRecipe)
	router.GET("/cuisines", h.ListCuisines)
	router.GET("/generate", h.GenerateFromFridge)
	router.POST("/generate", h.Generate)
	router.POST("/recipes/parse", h.ParseRecipe)
	router.GET("/recipes/parse/:id", h.GetParsedRecipe)
}

// ListRecipes answers GET /api/recipes with recipes grouped by cuisine.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	grouped, err := h.store.GetAllRecipesByCuisine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// GetRecipe answers GET /api/recipes/{name}.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}

	details, err := h.store.GetRecipeDetails(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// AddRecipe answers POST /api/recipes. The relational write is
// authoritative; indexing runs after the commit as a fire-and-log side
// effect that never fails the request.
func (h *RecipeHandler) AddRecipe(c *gin.Context) {
	var req AddRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}
	if len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredients list is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	err := h.store.SaveRecipe(c.Request.Context(), name, req.Ingredients, req.Seasonings, req.CuisineType, req.Instructions, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		if err := h.indexer.IndexRecipe(ctx, name); err != nil {
			h.logger.Warnw("failed to index recipe after save", "recipe", name, "error", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Recipe added successfully", "name": name})
}

// DeleteRecipe answers DELETE /api/recipes/{name}. The vector point removal
// is best-effort after the relational delete.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}

	if err := h.store.DeleteRecipe(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}

	if err := h.indexer.RemoveRecipe(c.Request.Context(), name); err != nil {
		h.logger.Warnw("failed to remove recipe from search index", "recipe", name, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully", "name": name})
}

// ListCuisines answers GET /api/cuisines.
func (h *RecipeHandler) ListCuisines(c *gin.Context) {
	cuisines := make([]gin.H, 0, len(models.AllCuisines()))
	for _, cuisine := range models.AllCuisines() {
		cuisines = append(cuisines, gin.H{
			"name":        string(cuisine),
			"displayName": cuisine.DisplayName(),
		})
	}
	c.JSON(http.StatusOK, cuisines)
}

// GenerateFromFridge answers GET /api/generate against the stored pantry.
func (h *RecipeHandler) GenerateFromFridge(c *gin.Context) {
	made, err := h.cook.FindCookableFromFridge(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"made": made})
}

// Generate answers POST /api/generate with explicit recipes and supplies.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Recipes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipes list is required and cannot be empty"})
		return
	}
	if len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredients list is required and cannot be empty"})
		return
	}
	if len(req.Supplies) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supplies list is required and cannot be empty"})
		return
	}
	if len(req.Recipes) != len(req.Ingredients) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipes and ingredients lists must have the same size"})
		return
	}
	for i, list := range req.Ingredients {
		if len(list) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient list for recipe '" + req.Recipes[i] + "' cannot be empty"})
			return
		}
	}

	made := h.cook.FindCookableRecipes(req.Recipes, req.Ingredients, req.Supplies)
	c.JSON(http.StatusOK, gin.H{"made": made})
}

// ParseRecipe answers POST /api/recipes/parse: free recipe text in, a
// structured 24h draft out. A degraded LLM produces a warning, not an
// error.
func (h *RecipeHandler) ParseRecipe(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe text is required"})
		return
	}

	parsed, err := h.llm.ParseRecipeText(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.Warnw("recipe parsing failed", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"warning": "Recipe parsing is not available right now",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": parsed})
}

// GetParsedRecipe answers GET /api/recipes/parse/{id}.
func (h *RecipeHandler) GetParsedRecipe(c *gin.Context) {
	parsed, err := h.llm.GetParsedRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": parsed})
}
