package routes

import (
	"RadCase/cache"
	"RadCase/config"
	"RadCase/controllers"
	"RadCase/handlers"
	"RadCase/middlewares"
	"RadCase/repositories"
	"RadCase/services"
	"RadCase/storage"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB, storageClient *storage.Client) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply API token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Api-Token"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	caseRepo := repositories.NewCaseRepository(cache)
	mediaRepo := repositories.NewMediaFileRepository(cache)
	reportRepo := repositories.NewReportRepository(cache)
	connectionRepo := repositories.NewConnectionRepository(cache)

	userService := services.NewUserService(userRepo, storageClient)
	caseService := services.NewCaseService(caseRepo, mediaRepo, reportRepo, connectionRepo, storageClient)
	mediaService := services.NewMediaService(mediaRepo, caseRepo, storageClient)
	reportService := services.NewReportService(reportRepo, caseRepo)
	connectionService := services.NewConnectionService(connectionRepo, userRepo)

	authHandler := handlers.NewAuthHandler(userService)
	caseHandler := handlers.NewCaseHandler(caseService, mediaService, reportService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	doctorHandler := handlers.NewDoctorHandler(userService)

	// Register routes
	controllers.SetupCaseRoutes(router, caseHandler, connectionHandler, doctorHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
