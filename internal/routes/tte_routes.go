package routes

import (
	"sanapati-backend/config"
	"sanapati-backend/internal/handler"
	"sanapati-backend/internal/mailer"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTTERoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	repo := repository.NewTTERepository(db)
	userRepo := repository.NewUserRepository(db)
	hdl := handler.NewTTEHandler(repo, cfg, mailer.New(cfg))

	auth := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.Role(model.RoleAdmin)

	api := app.Group("/api/tte", auth)

	// User
	api.Post("/submit", hdl.Submit)
	api.Get("/my-tte", hdl.GetMyTTE)
	api.Get("/export/instansi", hdl.ExportInstansi)

	// Admin (route statis sebelum /:id)
	api.Get("/stats", adminOnly, hdl.GetStats)
	api.Get("/all", adminOnly, hdl.GetAll)
	api.Get("/export/all", adminOnly, hdl.ExportAll)

	api.Get("/:id", hdl.GetByID)
	api.Put("/:id/approve", adminOnly, hdl.Approve)
	api.Put("/:id/reject", adminOnly, hdl.Reject)
	api.Delete("/:id", hdl.Delete)
}
