package routes

import (
	"sanapati-backend/config"
	"sanapati-backend/internal/handler"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramRepo := repository.NewTelegramRepository(db)
	userRepo := repository.NewUserRepository(db)
	hdl := handler.NewReportHandler(telegramRepo, userRepo)

	auth := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.Role(model.RoleAdmin)

	api := app.Group("/api/reports", auth, adminOnly)
	api.Get("/export/telegrams", hdl.ExportTelegrams)
	api.Get("/export/users", hdl.ExportUsers)
}
