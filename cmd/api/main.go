package main

import (
	"fmt"

	"sanapati-backend/config"
	"sanapati-backend/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg := config.Load()

	// Proses berhenti di sini kalau koneksi awal gagal
	db := config.ConnectDB(cfg)

	app := fiber.New()

	// Middleware Global
	app.Use(cors.New())
	app.Use(logger.New())

	// Serve file upload (lampiran telegram, foto, signature)
	app.Static("/uploads", cfg.UploadDir)

	routes.SetupAuthRoutes(app, db, cfg)
	routes.SetupUserRoutes(app, db, cfg)
	routes.SetupTelegramRoutes(app, db, cfg)
	routes.SetupTTERoutes(app, db, cfg)
	routes.SetupReportRoutes(app, db, cfg)

	fmt.Printf("Server siap! Menunggu request di port :%s\n", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
