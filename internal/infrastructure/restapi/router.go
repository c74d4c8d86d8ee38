package restapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DinosaurDerek/rocketlink/internal/pkg/utils"
)

// SetupRouter configures the Gin engine with CORS, logging and the dashboard
// API routes.
func SetupRouter(handlers *Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // the dashboard is served from a separate origin
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/tokens", handlers.GetTokensHandler)
		v1.PUT("/selection", handlers.SetSelectionHandler)
		v1.GET("/tokens/:id/monitor", handlers.GetMonitorHandler)
		v1.POST("/tokens/:id/monitor/price", handlers.UpdatePriceHandler)
		v1.POST("/tokens/:id/monitor/threshold", handlers.SetThresholdHandler)
		v1.GET("/tokens/:id/history", handlers.GetHistoryHandler)
		v1.GET("/wallet", handlers.GetWalletHandler)
		v1.POST("/visibility", handlers.VisibilityHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
