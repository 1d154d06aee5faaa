package config

import (
	"fmt"
	"sanapati-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB membuka koneksi MySQL dan menjalankan auto migration.
// Proses langsung berhenti kalau koneksi awal gagal.
func ConnectDB(cfg *Config) *gorm.DB {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Gagal koneksi ke database: %v", err))
	}

	fmt.Println("Koneksi Database Berhasil!")

	if err := Migrate(db); err != nil {
		panic(fmt.Sprintf("Gagal migrasi database: %v", err))
	}

	return db
}

// Migrate dipisah agar bisa dipakai test dengan driver lain.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Telegram{},
		&model.Attachment{},
		&model.TelegramChecklist{},
		&model.ChecklistItem{},
		&model.TTE{},
	)
}
