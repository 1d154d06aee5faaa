package handler_test

import (
	"net/http"
	"testing"
	"time"

	"sanapati-backend/internal/model"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, db, _ := setupTest(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":     "Dinas Pendidikan",
		"email":    "disdik@lingga.go.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, model.RoleOPD, body["role"])
	assert.NotEmpty(t, body["token"])

	// Password tidak boleh keluar di response
	_, ada := body["password"]
	assert.False(t, ada)

	var user model.User
	require.NoError(t, db.Where("email = ?", "disdik@lingga.go.id").First(&user).Error)
	assert.NotEqual(t, "password123", user.Password)
}

func TestRegisterInviteTokenAdmin(t *testing.T) {
	app, _, _ := setupTest(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":             "Diskominfo",
		"email":            "admin@lingga.go.id",
		"password":         "password123",
		"adminInviteToken": "invite-rahasia",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, model.RoleAdmin, decodeBody(t, resp)["role"])

	// Token salah jatuh ke role opd, bukan error
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":             "Dinas Lain",
		"email":            "lain@lingga.go.id",
		"password":         "password123",
		"adminInviteToken": "token-ngawur",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, model.RoleOPD, decodeBody(t, resp)["role"])
}

func TestRegisterValidasi(t *testing.T) {
	app, db, _ := setupTest(t)

	// Email duplikat
	buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":     "Dinas Pendidikan",
		"email":    "disdik@lingga.go.id",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Email tidak valid
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":     "Dinas X",
		"email":    "bukan-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Password terlalu pendek
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nama":     "Dinas X",
		"email":    "x@lingga.go.id",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, db, _ := setupTest(t)

	user := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "disdik@lingga.go.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, user.ID, body["_id"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginKredensialSalah(t *testing.T) {
	app, db, _ := setupTest(t)

	buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "disdik@lingga.go.id",
		"password": "salah-total",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "BAD_CREDENTIALS", decodeBody(t, resp)["errorCode"])

	// Email tidak terdaftar: errorCode sama, tidak membocorkan mana yang salah
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@lingga.go.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "BAD_CREDENTIALS", decodeBody(t, resp)["errorCode"])
}

func TestProfileTanpaToken(t *testing.T) {
	app, _, _ := setupTest(t)

	resp := doJSON(t, app, http.MethodGet, "/api/auth/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", decodeBody(t, resp)["errorCode"])

	resp = doJSON(t, app, http.MethodGet, "/api/auth/profile", "token-rusak", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", decodeBody(t, resp)["errorCode"])
}

func TestUpdateProfile(t *testing.T) {
	app, db, _ := setupTest(t)

	user := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)

	resp := doJSON(t, app, http.MethodPut, "/api/auth/profile", tokenUntuk(t, user), map[string]string{
		"nama": "Dinas Pendidikan dan Kebudayaan",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Dinas Pendidikan dan Kebudayaan", body["nama"])
	assert.NotEmpty(t, body["token"])

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "Dinas Pendidikan dan Kebudayaan", updated.Nama)
	// Field lain tidak ikut berubah
	assert.Equal(t, "disdik@lingga.go.id", updated.Email)
}

func TestTwoFactorFlow(t *testing.T) {
	app, db, _ := setupTest(t)

	user := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)
	token := tokenUntuk(t, user)

	// Setup: dapat secret, 2FA belum aktif
	resp := doJSON(t, app, http.MethodGet, "/api/auth/2fa/setup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	secret := decodeBody(t, resp)["secret"].(string)
	require.NotEmpty(t, secret)

	var u model.User
	require.NoError(t, db.First(&u, user.ID).Error)
	assert.False(t, u.TwoFactorEnabled)

	// Kode salah ditolak
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/verify-setup", token, map[string]string{"code": "000000"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Kode benar mengaktifkan 2FA
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/verify-setup", token, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&u, user.ID).Error)
	assert.True(t, u.TwoFactorEnabled)
	assert.Equal(t, secret, u.TwoFactorSecret)
	assert.Empty(t, u.TwoFactorTempSecret)

	// Login sekarang menunda token sampai kode diverifikasi
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "disdik@lingga.go.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["twoFactorRequired"])
	_, adaToken := body["token"]
	assert.False(t, adaToken)

	code, err = totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/verify", "", map[string]interface{}{
		"userId": user.ID,
		"code":   code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["token"])

	// Kode salah di tahap verify tetap 401
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/verify", "", map[string]interface{}{
		"userId": user.ID,
		"code":   "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestToggleTwoFactor(t *testing.T) {
	app, db, _ := setupTest(t)

	user := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)
	token := tokenUntuk(t, user)

	// Aktifkan tanpa pernah setup -> 400
	resp := doJSON(t, app, http.MethodPost, "/api/auth/2fa/toggle", token, map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Setup + verifikasi dulu
	resp = doJSON(t, app, http.MethodGet, "/api/auth/2fa/setup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	secret := decodeBody(t, resp)["secret"].(string)
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/verify-setup", token, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Matikan: secret ikut dibuang
	resp = doJSON(t, app, http.MethodPost, "/api/auth/2fa/toggle", token, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var u model.User
	require.NoError(t, db.First(&u, user.ID).Error)
	assert.False(t, u.TwoFactorEnabled)
	assert.Empty(t, u.TwoFactorSecret)

	// Login kembali normal
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "disdik@lingga.go.id",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["token"])
}

func TestUploadImage(t *testing.T) {
	app, db, _ := setupTest(t)

	user := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)

	resp := doMultipart(t, app, http.MethodPost, "/api/auth/upload-image", tokenUntuk(t, user), nil,
		[]testFile{{Field: "image", Name: "foto.png", ContentType: "image/png", Data: []byte("png-data")}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["imageUrl"])

	// Tipe selain gambar ditolak
	resp = doMultipart(t, app, http.MethodPost, "/api/auth/upload-image", tokenUntuk(t, user), nil,
		[]testFile{{Field: "image", Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
