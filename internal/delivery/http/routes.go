package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pureskin/dupefinder/config"
	"github.com/pureskin/dupefinder/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, collector *metrics.Collector, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Service status endpoints
	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Analysis endpoints
		analyze := v1.Group("/analyze")
		{
			analyze.POST("/quality", handler.AnalyzeQuality)
			analyze.POST("/dupes", handler.FindDupes)
			analyze.POST("/scan", handler.ScanLabel)
			analyze.POST("/recommend", handler.Recommend)
			analyze.POST("/review", handler.AnalyzeReview)
			analyze.GET("/filters", handler.ListFilters)
		}

		// Favorites endpoints
		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.ListFavorites)
			favorites.POST("", handler.AddFavorite)
			favorites.DELETE("/:name", handler.RemoveFavorite)
		}

		// Admin endpoints
		admin := v1.Group("/admin")
		{
			admin.POST("/reindex", handler.Reindex)
		}
	}

	return router
}
