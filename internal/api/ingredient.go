package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/service"
)

// IngredientHandler serves alias management and resolution.
type IngredientHandler struct {
	resolver *service.IngredientResolver
	logger   *zap.SugaredLogger
}

func NewIngredientHandler(resolver *service.IngredientResolver, logger *zap.SugaredLogger) *IngredientHandler {
	return &IngredientHandler{resolver: resolver, logger: logger}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients/:name/aliases", h.GetAliases)
	router.POST("/ingredients/:name/aliases", h.AddAlias)
	router.POST("/ingredients/:name/generate-aliases", h.GenerateAliases)
	router.GET("/ingredients/:name/resolve", h.Resolve)
	router.POST("/ingredients/seed-aliases", h.SeedAliases)
}

// GetAliases answers GET /api/ingredients/{name}/aliases.
func (h *IngredientHandler) GetAliases(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	aliases, err := h.resolver.Aliases(name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredient": name,
		"canonical":  h.resolver.Resolve(name),
		"aliases":    aliases,
	})
}

// AddAlias answers POST /api/ingredients/{canonical}/aliases.
func (h *IngredientHandler) AddAlias(c *gin.Context) {
	canonical := strings.TrimSpace(c.Param("name"))
	if canonical == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Canonical name is required"})
		return
	}

	var req struct {
		Alias string `json:"alias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Alias) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alias is required"})
		return
	}

	if err := h.resolver.AddAlias(canonical, strings.TrimSpace(req.Alias)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Alias added successfully",
		"canonical": canonical,
		"alias":     req.Alias,
	})
}

// GenerateAliases answers POST /api/ingredients/{name}/generate-aliases.
// LLM failures yield an empty generated list, not an error.
func (h *IngredientHandler) GenerateAliases(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	generated := h.resolver.GenerateAliases(c.Request.Context(), name)
	c.JSON(http.StatusOK, gin.H{
		"ingredient": name,
		"generated":  generated,
		"count":      len(generated),
	})
}

// Resolve answers GET /api/ingredients/{name}/resolve.
func (h *IngredientHandler) Resolve(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient name is required"})
		return
	}

	canonical := h.resolver.Resolve(name)
	c.JSON(http.StatusOK, gin.H{
		"original":  name,
		"canonical": canonical,
		"resolved":  canonical != name,
	})
}

// SeedAliases answers POST /api/ingredients/seed-aliases.
func (h *IngredientHandler) SeedAliases(c *gin.Context) {
	if err := h.resolver.SeedCommonAliases(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seeded common ingredient aliases"})
}
