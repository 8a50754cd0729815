package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(environment string, handler *Handler) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/health", handler.HealthCheck)

	router.POST("/scrape", handler.Scrape)
	router.GET("/scrape", handler.Scrape)

	router.POST("/sync/all", handler.SynchronizeAll)

	backend := router.Group("/casa-moreno-backend")
	{
		backend.POST("/login", handler.BackendLogin)
		backend.GET("/products/list-all", handler.BackendListAll)
		backend.GET("/products/:id", handler.BackendFindByID)
	}

	return router
}
