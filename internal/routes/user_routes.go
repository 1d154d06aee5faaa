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

func SetupUserRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	userRepo := repository.NewUserRepository(db)
	telegramRepo := repository.NewTelegramRepository(db)
	hdl := handler.NewUserHandler(userRepo, telegramRepo)

	auth := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.Role(model.RoleAdmin)

	api := app.Group("/api/users", auth, adminOnly)
	api.Get("/", hdl.GetAll)
	api.Get("/:id", hdl.GetByID)
}
