package routes

import (
	"sanapati-backend/config"
	"sanapati-backend/internal/handler"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	repo := repository.NewUserRepository(db)
	hdl := handler.NewAuthHandler(repo, cfg)
	auth := middleware.Auth(cfg.JWTSecret, repo)

	api := app.Group("/api/auth")

	// Public
	api.Post("/register", hdl.Register)
	api.Post("/login", hdl.Login)
	api.Post("/2fa/verify", hdl.VerifyTwoFactor) // menyelesaikan login ber-2FA

	// Protected
	api.Get("/profile", auth, hdl.GetProfile)
	api.Put("/profile", auth, hdl.UpdateProfile)
	api.Get("/2fa/setup", auth, hdl.SetupTwoFactor)
	api.Post("/2fa/verify-setup", auth, hdl.VerifyTwoFactorSetup)
	api.Post("/2fa/toggle", auth, hdl.ToggleTwoFactor)
	api.Post("/upload-image", auth, hdl.UploadImage)
}
