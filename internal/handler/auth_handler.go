package handler

import (
	"time"

	"sanapati-backend/config"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// Dikirim di body 401 login supaya client tidak perlu menebak dari pesan:
// BAD_CREDENTIALS = password salah (jangan logout), TOKEN_INVALID = sesi mati.
const ErrorCodeBadCredentials = "BAD_CREDENTIALS"

const totpIssuer = "Sanapati"

type AuthHandler struct {
	repo     repository.UserRepository
	cfg      *config.Config
	validate *validator.Validate
}

func NewAuthHandler(repo repository.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{repo: repo, cfg: cfg, validate: validator.New()}
}

type RegisterRequest struct {
	Nama             string `json:"nama" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format data salah"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Nama, email, dan password valid wajib diisi", "error": err.Error()})
	}

	// Cek jika user sudah terdaftar
	if _, err := h.repo.FindByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User sudah terdaftar"})
	}

	// Role admin hanya jika invite token benar, selain itu OPD
	role := model.RoleOPD
	if req.AdminInviteToken != "" && req.AdminInviteToken == h.cfg.AdminInviteToken {
		role = model.RoleAdmin
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal mengenkripsi password"})
	}

	user := model.User{
		Nama:            req.Nama,
		Email:           req.Email,
		Password:        string(hashedPassword),
		ProfileImageURL: req.ProfileImageURL,
		Role:            role,
	}
	if err := h.repo.Create(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	token, err := h.generateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal membuat token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"_id":             user.ID,
		"nama":            user.Nama,
		"email":           user.Email,
		"role":            user.Role,
		"profileImageUrl": user.ProfileImageURL,
		"token":           token,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format data salah"})
	}

	user, err := h.repo.FindByEmail(req.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":   "Email atau password tidak valid",
			"errorCode": ErrorCodeBadCredentials,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":   "Email atau password tidak valid",
			"errorCode": ErrorCodeBadCredentials,
		})
	}

	// Login belum selesai kalau 2FA aktif: client harus lanjut ke /2fa/verify
	if user.TwoFactorEnabled {
		return c.JSON(fiber.Map{
			"twoFactorRequired": true,
			"userId":            user.ID,
		})
	}

	token, err := h.generateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal membuat token"})
	}

	return c.JSON(fiber.Map{
		"_id":             user.ID,
		"nama":            user.Nama,
		"email":           user.Email,
		"role":            user.Role,
		"profileImageUrl": user.ProfileImageURL,
		"token":           token,
	})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(user)
}

type UpdateProfileRequest struct {
	Nama            string `json:"nama"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Data tidak valid"})
	}

	if req.Nama != "" {
		user.Nama = req.Nama
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.ProfileImageURL != "" {
		user.ProfileImageURL = req.ProfileImageURL
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal mengenkripsi password"})
		}
		user.Password = string(hashedPassword)
	}

	if err := h.repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal update profil", "error": err.Error()})
	}

	token, err := h.generateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal membuat token"})
	}

	return c.JSON(fiber.Map{
		"_id":   user.ID,
		"nama":  user.Nama,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// SetupTwoFactor membuat secret TOTP baru dan menyimpannya sebagai temp
// secret. 2FA baru aktif setelah kode pertama diverifikasi.
func (h *AuthHandler) SetupTwoFactor(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal membuat secret 2FA"})
	}

	user.TwoFactorTempSecret = key.Secret()
	if err := h.repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal menyimpan secret 2FA"})
	}

	return c.JSON(fiber.Map{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
	})
}

type TwoFactorCodeRequest struct {
	Code string `json:"code"`
}

// VerifyTwoFactorSetup memvalidasi kode pertama terhadap temp secret,
// lalu mengaktifkan 2FA.
func (h *AuthHandler) VerifyTwoFactorSetup(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req TwoFactorCodeRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Kode OTP harus diisi"})
	}

	if user.TwoFactorTempSecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Belum ada setup 2FA, panggil /2fa/setup dulu"})
	}

	if !totp.Validate(req.Code, user.TwoFactorTempSecret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Kode OTP tidak valid"})
	}

	user.TwoFactorSecret = user.TwoFactorTempSecret
	user.TwoFactorTempSecret = ""
	user.TwoFactorEnabled = true
	if err := h.repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal mengaktifkan 2FA"})
	}

	return c.JSON(fiber.Map{"message": "2FA berhasil diaktifkan"})
}

type TwoFactorToggleRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *AuthHandler) ToggleTwoFactor(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req TwoFactorToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format data salah"})
	}

	if req.Enabled {
		if user.TwoFactorSecret == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "2FA belum pernah di-setup dan diverifikasi"})
		}
		user.TwoFactorEnabled = true
	} else {
		user.TwoFactorEnabled = false
		user.TwoFactorSecret = ""
		user.TwoFactorTempSecret = ""
	}

	if err := h.repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal mengubah pengaturan 2FA"})
	}

	return c.JSON(fiber.Map{"message": "Pengaturan 2FA diperbarui", "twoFactorEnabled": user.TwoFactorEnabled})
}

type TwoFactorVerifyRequest struct {
	UserID uint   `json:"userId"`
	Code   string `json:"code"`
}

// VerifyTwoFactor (public) menyelesaikan login user ber-2FA.
func (h *AuthHandler) VerifyTwoFactor(c *fiber.Ctx) error {
	var req TwoFactorVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Kode OTP harus diisi"})
	}

	user, err := h.repo.FindByID(req.UserID)
	if err != nil || !user.TwoFactorEnabled {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":   "Verifikasi 2FA gagal",
			"errorCode": ErrorCodeBadCredentials,
		})
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":   "Kode OTP tidak valid",
			"errorCode": ErrorCodeBadCredentials,
		})
	}

	token, err := h.generateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Gagal membuat token"})
	}

	return c.JSON(fiber.Map{
		"_id":             user.ID,
		"nama":            user.Nama,
		"email":           user.Email,
		"role":            user.Role,
		"profileImageUrl": user.ProfileImageURL,
		"token":           token,
	})
}

// UploadImage menyimpan foto profil dan mengembalikan URL-nya.
func (h *AuthHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Tidak ada file gambar yang diupload"})
	}

	path, err := middleware.SimpanUpload(c, file, h.cfg.UploadDir, "", middleware.ImageTypes)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	imageURL := c.BaseURL() + "/" + path
	return c.JSON(fiber.Map{"imageUrl": imageURL})
}

func (h *AuthHandler) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
