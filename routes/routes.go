package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"skillmap-backend/config"
	"skillmap-backend/controllers"
	"skillmap-backend/middleware"
	"skillmap-backend/services"
	"skillmap-backend/store"
)

func SetupRoutes(app *fiber.App, s store.Store, cfg *config.Config, codes store.ResetCodeStore, mailer services.Mailer, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(s, cfg, codes, mailer, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/auth/verify", authController.Verify)
	app.Post("/api/auth/forgot-password", authController.ForgotPassword)
	app.Post("/api/auth/verify-reset-code", authController.VerifyResetCode)
	app.Post("/api/auth/reset-password", authController.ResetPassword)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Path generation and progress routes
	tracker := services.NewProgressTracker(s)
	generator := services.NewPathGenerator(cfg)
	pathController := controllers.NewPathController(tracker, generator, cfg)

	app.Post("/api/generate-path", authMiddleware, pathController.GeneratePath)

	progress := app.Group("/api/user/progress", authMiddleware)
	progress.Get("/", pathController.GetProgress)
	progress.Post("/", pathController.AddPath)
	progress.Patch("/update", pathController.UpdateProgress)
	progress.Delete("/paths/:pathId", pathController.RemovePath)
}
