package router

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/socialpet/backend/internal/handlers"
	"github.com/socialpet/backend/internal/middleware"
	"github.com/socialpet/backend/internal/repositories"
	"github.com/socialpet/backend/internal/token"
	"github.com/socialpet/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, uploader handlers.Uploader) {
	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db.Client, db.Database)
	postRepo := repositories.NewMongoPostRepository(db.Database)

	// Unique indexes on email and username back the registration conflict
	// checks.
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured.")

	tokens := token.NewService(cfg.JWTSecret)
	authGuard := middleware.JWTAuth(tokens)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Auth routes ---
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	authGroup := e.Group("/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	authGroup.GET("/me", authHandler.Me, authGuard)
	log.Println("Auth routes configured.")

	// --- Post routes (listing is public, mutations require a bearer token) ---
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	e.GET("/posts", postHandler.ListPosts)
	postGroup := e.Group("/posts", authGuard)
	postHandler.RegisterPostRoutes(postGroup)
	log.Println("Post routes configured.")

	// --- User profile and follow routes ---
	userHandler := handlers.NewUserHandler(userRepo)
	userGroup := e.Group("/users", authGuard)
	userHandler.RegisterUserRoutes(userGroup)
	log.Println("User routes configured.")

	// --- Upload route ---
	uploadHandler := handlers.NewUploadHandler(uploader)
	e.POST("/upload", uploadHandler.Upload, authGuard)
	log.Println("Upload route configured.")

	log.Println("All routes configured.")
}
