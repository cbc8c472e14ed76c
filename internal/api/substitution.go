package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/service"
)

// SubstitutionHandler serves missing-ingredient reports and AI
// substitution suggestions.
type SubstitutionHandler struct {
	planner *service.SubstitutionService
	logger  *zap.SugaredLogger
}

func NewSubstitutionHandler(planner *service.SubstitutionService, logger *zap.SugaredLogger) *SubstitutionHandler {
	return &SubstitutionHandler{planner: planner, logger: logger}
}

func (h *SubstitutionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipes/:name/missing", h.MissingIngredients)
	router.GET("/recipes/:name/substitutions", h.Substitutions)
}

// MissingIngredients answers GET /api/recipes/{name}/missing.
func (h *SubstitutionHandler) MissingIngredients(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}

	report, err := h.planner.FindMissingIngredients(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Substitutions answers GET /api/recipes/{name}/substitutions.
func (h *SubstitutionHandler) Substitutions(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe name is required"})
		return
	}

	substitutions, err := h.planner.GetSubstitutions(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipeName":    name,
		"substitutions": substitutions,
	})
}
