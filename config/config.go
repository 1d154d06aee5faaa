package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config menampung semua konfigurasi proses. Dibangun sekali di main
// lalu dioper ke komponen yang membutuhkan, bukan baca env di mana-mana.
type Config struct {
	Port             string
	DBUser           string
	DBPassword       string
	DBHost           string
	DBPort           string
	DBName           string
	JWTSecret        string
	AdminInviteToken string
	UploadDir        string

	// SMTP untuk notifikasi email (kosong = nonaktif)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Kredensial akun admin awal untuk cmd/seeder
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() *Config {
	return &Config{
		Port:             GetEnv("PORT", "3000"),
		DBUser:           GetEnv("DB_USER", "root"),
		DBPassword:       GetEnv("DB_PASSWORD", ""),
		DBHost:           GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:           GetEnv("DB_PORT", "3306"),
		DBName:           GetEnv("DB_NAME", "sanapati_db"),
		JWTSecret:        GetEnv("JWT_SECRET", "rahasia_negara"),
		AdminInviteToken: GetEnv("ADMIN_INVITE_TOKEN", ""),
		UploadDir:        GetEnv("UPLOAD_DIR", "./uploads"),
		SMTPHost:         GetEnv("SMTP_HOST", ""),
		SMTPPort:         GetEnvAsInt("SMTP_PORT", 587),
		SMTPUser:         GetEnv("SMTP_USER", ""),
		SMTPPass:         GetEnv("SMTP_PASS", ""),
		SMTPFrom:         GetEnv("SMTP_FROM", "noreply@lingga.go.id"),

		SeedAdminEmail:    GetEnv("SEED_ADMIN_EMAIL", "admin@lingga.go.id"),
		SeedAdminPassword: GetEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
}

// DSN merakit connection string MySQL.
// Format: user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
