package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge-backend/internal/service"
)

// AddRecipeRequest is the body of POST /api/recipes.
type AddRecipeRequest struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Seasonings   []string `json:"seasonings"`
	CuisineType  string   `json:"cuisineType"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
}

// GenerateRequest is the body of POST /api/generate: explicit recipes with
// per-recipe ingredient lists and a supply list.
type GenerateRequest struct {
	Recipes     []string   `json:"recipes"`
	Ingredients [][]string `json:"ingredients"`
	Supplies    []string   `json:"supplies"`
}

// HybridSearchRequest is the body of POST /api/recipes/hybrid-search.
type HybridSearchRequest struct {
	Ingredients []string `json:"ingredients"`
	Query       string   `json:"query"`
	Limit       int      `json:"limit"`
	Threshold   float32  `json:"threshold"`
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
