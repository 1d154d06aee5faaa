package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"
	"time"

	"sanapati-backend/config"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// setupTest membangun app lengkap di atas sqlite in-memory.
func setupTest(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        testSecret,
		AdminInviteToken: "invite-rahasia",
		UploadDir:        t.TempDir(),
	}

	app := fiber.New()
	routes.SetupAuthRoutes(app, db, cfg)
	routes.SetupUserRoutes(app, db, cfg)
	routes.SetupTelegramRoutes(app, db, cfg)
	routes.SetupTTERoutes(app, db, cfg)
	routes.SetupReportRoutes(app, db, cfg)

	return app, db, cfg
}

func buatUser(t *testing.T, db *gorm.DB, nama, email, role string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{Nama: nama, Email: email, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenUntuk(t *testing.T, user *model.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

type testFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// buatMultipart merakit body multipart lengkap dengan Content-Type per part
// (dipakai filter tipe file di server).
func buatMultipart(t *testing.T, fields map[string]string, files []testFile) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}

	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.Field, file.Name))
		header.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.Data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, app *fiber.App, method, path, token string, fields map[string]string, files []testFile) *http.Response {
	t.Helper()

	body, contentType := buatMultipart(t, fields, files)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
