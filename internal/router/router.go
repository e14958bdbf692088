package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-app/backend/internal/api"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/middleware"
)

// SetupRouter configures the application routes.
func SetupRouter(
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	catalogHandler *api.CatalogHandler,
	allowedOrigins []string,
	healthDB *database.DB,
) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if healthDB != nil {
			if err := healthDB.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup)
	catalogHandler.RegisterRoutes(apiGroup)

	return router
}
