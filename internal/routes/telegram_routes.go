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

func SetupTelegramRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	repo := repository.NewTelegramRepository(db)
	userRepo := repository.NewUserRepository(db)
	hdl := handler.NewTelegramHandler(repo, userRepo, cfg)
	dashboard := handler.NewDashboardHandler(repo)

	auth := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.Role(model.RoleAdmin)

	api := app.Group("/api/telegrams", auth)

	// Dashboard harus terdaftar sebelum /:id
	api.Get("/dashboard-data", adminOnly, dashboard.GetDashboardData)
	api.Get("/user-dashboard-data", dashboard.GetUserDashboardData)

	api.Get("/", hdl.GetAll)
	api.Get("/:id", hdl.GetByID)
	api.Post("/", adminOnly, hdl.Create)
	api.Put("/:id", adminOnly, hdl.Update)
	api.Delete("/:id", adminOnly, hdl.Delete)

	api.Put("/:id/status", hdl.UpdateStatus)
	api.Put("/:id/todo", hdl.UpdateChecklist)
}
