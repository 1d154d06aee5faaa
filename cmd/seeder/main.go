package main

import (
	"fmt"
	"log"

	"sanapati-backend/config"
	"sanapati-backend/internal/model"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeder membuat akun admin awal supaya sistem bisa langsung dipakai.
// Idempotent: kalau email sudah ada, tidak terjadi apa-apa.
func main() {
	fmt.Println("Memulai Database Seeding...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg := config.Load()
	db := config.ConnectDB(cfg)

	email := cfg.SeedAdminEmail
	password := cfg.SeedAdminPassword

	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		fmt.Println("Akun admin sudah ada, tidak ada yang di-seed.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Gagal hash password: %v", err)
	}

	admin := model.User{
		Nama:     "Diskominfo Kab. Lingga",
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Gagal membuat akun admin: %v", err)
	}

	fmt.Println("Seeding selesai! Akun admin:", email)
}
