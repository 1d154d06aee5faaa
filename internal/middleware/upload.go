package middleware

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Batas ukuran file upload (sama dengan batas lampiran PDF lama: 5MB).
const MaxUploadSize = 5 * 1024 * 1024

var (
	ImageTypes = []string{"image/jpeg", "image/png", "image/jpg"}
	PDFTypes   = []string{"application/pdf"}
)

// SimpanUpload memvalidasi tipe/ukuran file lalu menyimpannya ke subDir di
// bawah uploadDir dengan nama acak. Path yang dikembalikan relatif dan
// selalu memakai forward slash, apa pun platformnya.
func SimpanUpload(c *fiber.Ctx, file *multipart.FileHeader, uploadDir, subDir string, allowedTypes []string) (string, error) {
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf("ukuran file maksimal 5MB")
	}

	contentType := file.Header.Get("Content-Type")
	allowed := false
	for _, t := range allowedTypes {
		if t == contentType {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("tipe file %s tidak diizinkan", contentType)
	}

	dir := filepath.Join(uploadDir, subDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("gagal membuat folder upload: %w", err)
		}
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	dest := filepath.Join(dir, filename)
	if err := c.SaveFile(file, dest); err != nil {
		return "", fmt.Errorf("gagal menyimpan file: %w", err)
	}

	return filepath.ToSlash(dest), nil
}

// HapusFile menghapus file upload secara best-effort; file yang sudah tidak
// ada bukan error. Menerima path simpanan maupun bentuk URL-nya
// (dengan "/" di depan).
func HapusFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err == nil {
		os.Remove(path)
		return
	}
	trimmed := strings.TrimPrefix(path, "/")
	if _, err := os.Stat(trimmed); err == nil {
		os.Remove(trimmed)
	}
}
