package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge-backend/internal/api"
	"github.com/pageza/smartfridge-backend/internal/middleware"
)

// SetupRouter configures the application routes under /api.
func SetupRouter(
	recipeHandler *api.RecipeHandler,
	fridgeHandler *api.FridgeHandler,
	searchHandler *api.SearchHandler,
	ingredientHandler *api.IngredientHandler,
	substitutionHandler *api.SubstitutionHandler,
) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())

	apiGroup := router.Group("/api")
	recipeHandler.RegisterRoutes(apiGroup)
	fridgeHandler.RegisterRoutes(apiGroup)
	searchHandler.RegisterRoutes(apiGroup)
	ingredientHandler.RegisterRoutes(apiGroup)
	substitutionHandler.RegisterRoutes(apiGroup)

	return router
}
