package middleware

import (
	"strings"

	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrorCodeTokenInvalid dikirim di body supaya client bisa membedakan
// "token rusak/kadaluwarsa" dari error 401 lain tanpa menebak dari pesan.
const ErrorCodeTokenInvalid = "TOKEN_INVALID"

// Auth memvalidasi bearer token lalu memuat user-nya ke c.Locals("user").
func Auth(secret string, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "Tidak memiliki hak akses!",
				"errorCode": ErrorCodeTokenInvalid,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "Token tidak valid atau kadaluwarsa",
				"errorCode": ErrorCodeTokenInvalid,
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "Token tidak valid",
				"errorCode": ErrorCodeTokenInvalid,
			})
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "Token tidak valid",
				"errorCode": ErrorCodeTokenInvalid,
			})
		}

		user, err := users.FindByID(uint(userID))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":   "User pada token tidak ditemukan",
				"errorCode": ErrorCodeTokenInvalid,
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser mengambil user yang sudah dimuat middleware Auth.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}
