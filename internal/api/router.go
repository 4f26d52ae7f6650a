package api

import (
	"github.com/Conceptual-Machines/harmonix-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/harmonix-api/internal/api/middleware"
	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP surface delegates to
type Dependencies struct {
	Chords   handlers.ChordLookup
	Songs    handlers.SongFinder
	Recorder metrics.Recorder
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg))

	// Health check
	router.GET("/health", handlers.HealthCheck)

	songHandler := handlers.NewSongHandler(deps.Songs)
	chordHandler := handlers.NewChordHandler(deps.Chords)

	// Legacy endpoints ({"error": ...} envelope)
	router.GET("/get_chords", songHandler.GetChords)
	router.POST("/enhance_chords", songHandler.EnhanceChords)

	// Web client API ({"detail": ...} envelope)
	api := router.Group("/api")
	{
		api.GET("/songs", songHandler.SearchSongs)
		api.POST("/ai/enhance", songHandler.EnhanceSong)
		api.POST("/chords/diagram", chordHandler.Diagram)

		metricsHandler := handlers.NewMetricsHandler(version, cfg.LLMProvider, cfg.LLMModel)
		api.GET("/metrics", metricsHandler.GetMetrics)
	}

	return router
}
