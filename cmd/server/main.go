package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"taskboard-api/internal/archive"
	"taskboard-api/internal/config"
	"taskboard-api/internal/constants"
	"taskboard-api/internal/database"
	"taskboard-api/internal/handlers"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize services
	engine := archive.NewEngine(archive.Config{
		Enabled:          cfg.ArchivingEnabled,
		MaxTasksPerBoard: cfg.MaxTasksPerBoard,
	})
	authService := services.NewAuthService(repository.NewUserRepository(db))
	boardService := services.NewBoardService(repository.NewBoardRepository(db), repository.NewTaskRepository(db))
	taskService := services.NewTaskService(db, engine)
	reader := archive.NewReader(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	boardHandler := handlers.NewBoardHandler(boardService)
	taskHandler := handlers.NewTaskHandler(taskService)
	archiveHandler := handlers.NewArchiveHandler(reader, taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Board API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(middleware.RequireAuth())
		{
			boards.GET("", boardHandler.ListBoards)
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("/:id", middleware.RequireBoardAccess(), boardHandler.GetBoard)
			boards.PATCH("/:id", middleware.RequireBoardAccess(), boardHandler.UpdateBoard)
			boards.DELETE("/:id", middleware.RequireBoardAccess(), boardHandler.DeleteBoard)
			boards.GET("/:id/stats", middleware.RequireBoardAccess(), boardHandler.GetBoardStats)
			boards.GET("/:id/export", middleware.RequireBoardAccess(), boardHandler.ExportBoard)
			boards.GET("/:id/summary", middleware.RequireBoardAccess(), boardHandler.GetBoardSummary)
			boards.POST("/:id/tasks", middleware.RequireBoardAccess(), taskHandler.AddTask)
			boards.POST("/:id/reorder", middleware.RequireBoardAccess(), taskHandler.ReorderTasks)
			boards.POST("/:id/tasks/bulk-complete", middleware.RequireBoardAccess(), taskHandler.BulkCompleteTasks)
			boards.POST("/:id/tasks/bulk-delete", middleware.RequireBoardAccess(), taskHandler.BulkDeleteTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/uncomplete", taskHandler.UncompleteTask)
			tasks.POST("/:id/move", taskHandler.MoveTask)
		}

		// Archive routes (protected)
		archived := api.Group("/archive")
		archived.Use(middleware.RequireAuth())
		{
			archived.GET("", archiveHandler.ListArchived)
			archived.POST("/:id/restore", archiveHandler.RestoreArchivedTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
