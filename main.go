package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"skillmap-backend/config"
	"skillmap-backend/middleware"
	"skillmap-backend/routes"
	"skillmap-backend/services"
	"skillmap-backend/store"
	"skillmap-backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize record store
	var recordStore store.Store
	switch cfg.StorageDriver {
	case "postgres":
		recordStore, err = store.OpenPostgres(cfg)
	default:
		recordStore, err = store.NewFileStore(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}

	// Reset codes live in Redis when configured, otherwise in memory
	var resetCodes store.ResetCodeStore
	if cfg.RedisAddr != "" {
		resetCodes = store.NewRedisResetCodeStore(cfg.RedisAddr)
	} else {
		resetCodes = store.NewMemoryResetCodeStore()
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	mailer := services.NewResendMailer(cfg, logger)
	routes.SetupRoutes(app, recordStore, cfg, resetCodes, mailer, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
